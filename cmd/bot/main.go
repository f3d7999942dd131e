package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance_bot/internal/app"
	"attendance_bot/internal/domain/notify"
	"attendance_bot/internal/infra/clock"
	"attendance_bot/internal/infra/config"
	"attendance_bot/internal/infra/logger"
	"attendance_bot/internal/infra/portal"
	"attendance_bot/internal/infra/scheduler"
	"attendance_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("Attendance bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")

	clk, err := clock.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.WithFields(logrus.Fields{
		"timezone": cfg.Timezone,
		"date":     clk.DateString(),
		"clock":    clk.ClockString(),
		"weekday":  clk.WeekdayName(),
	}).Info("Clock initialized")

	httpClient := &http.Client{Timeout: cfg.RequestTimeout + 5*time.Second}

	auth := portal.NewAuthClient(cfg.PortalBaseURL, httpClient, cfg.PortalUsername, cfg.PortalPassword, logger.Get().WithField("component", "auth"))

	// Bootstrap authentication is the one fatal runtime failure; everything
	// after this recovers on a later tick.
	authCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	err = auth.Authenticate(authCtx)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: Bootstrap authentication failed: %v", err)
	}

	scheduleClient := portal.NewScheduleClient(cfg.PortalBaseURL, httpClient, auth, logger.Get().WithField("component", "schedule_client"))
	attendanceClient := portal.NewAttendanceClient(cfg.PortalBaseURL, httpClient, auth, logger.Get().WithField("component", "attendance_client"))

	scheduleService := app.NewScheduleService(scheduleClient, auth, clk, cfg.RequestTimeout, logger.Get().WithField("component", "schedule_service"))
	attendanceService := app.NewAttendanceService(attendanceClient, auth, scheduleService, clk, cfg.RequestTimeout, logger.Get().WithField("component", "attendance_service"))

	var notifier notify.Notifier = notify.Discard{}
	if cfg.TelegramToken != "" {
		tgNotifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram notifier: %v", err)
		}
		notifier = tgNotifier
		log.Info("Telegram notifier enabled")
	} else {
		log.Info("Telegram notifier disabled (TELEGRAM_TOKEN not set)")
	}

	attendanceScheduler := scheduler.NewAttendanceScheduler(
		attendanceService,
		scheduleService,
		clk,
		notifier,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecCoarse,
		cfg.CronSpecFine,
		cfg.JitterMin,
		cfg.JitterMax,
	)

	bootCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	attendanceScheduler.Bootstrap(bootCtx)
	cancel()

	attendanceScheduler.Start()
	log.Info("Application setup complete")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	attendanceScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
