package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/utils"
)

// setupServices swaps the in-process defaults for the backends named in the config.
// The returned func releases their connections.
func setupServices(ctx context.Context, cfg *config.Config) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.RedisAddr != "" {
		store := utils.NewRedisOTPStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := store.Ping(pingCtx)
		cancel()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("redis: %w", err)
		}
		utils.OTPs = store
		closers = append(closers, func() { _ = store.Close() })
		utils.LogInfo("OTP store: redis at %s", cfg.RedisAddr)
	} else {
		utils.LogInfo("OTP store: in-memory")
	}

	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		audit, err := utils.NewMongoAuditLogger(connectCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("mongo: %w", err)
		}
		utils.Audit = audit
		closers = append(closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = audit.Close(closeCtx)
		})
		utils.LogInfo("Audit log: mongo database %s", cfg.MongoDB)
	} else {
		utils.LogInfo("Audit log: in-memory")
	}

	switch cfg.MailProvider {
	case "smtp":
		if cfg.SMTPHost == "" {
			cleanup()
			return nil, fmt.Errorf("MAIL_PROVIDER=smtp requires SMTP_HOST")
		}
		utils.Mail = utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			cleanup()
			return nil, fmt.Errorf("MAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY")
		}
		utils.Mail = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	case "", "log":
		utils.Mail = utils.LogMailer{}
	default:
		cleanup()
		return nil, fmt.Errorf("unsupported MAIL_PROVIDER %q", cfg.MailProvider)
	}
	utils.LogInfo("Mail provider: %s", cfg.MailProvider)

	switch cfg.PaymentVerifier {
	case "razorpay":
		if cfg.RazorpayKey == "" || cfg.RazorpaySecret == "" {
			cleanup()
			return nil, fmt.Errorf("PAYMENT_VERIFIER=razorpay requires RAZORPAY_KEY and RAZORPAY_SECRET")
		}
		utils.Payments = utils.NewRazorpayVerifier(cfg.RazorpayKey, cfg.RazorpaySecret)
	case "", "manual":
		utils.Payments = utils.ManualVerifier{}
	default:
		cleanup()
		return nil, fmt.Errorf("unsupported PAYMENT_VERIFIER %q", cfg.PaymentVerifier)
	}
	utils.LogInfo("Payment verifier: %s", cfg.PaymentVerifier)

	return cleanup, nil
}
