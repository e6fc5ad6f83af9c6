// svrmgr handles Discord interaction webhooks to start and stop EC2
// instances from buttons on a control message.
package main

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"svrmgr/internal/auth"
	commonaws "svrmgr/internal/common/aws"
	"svrmgr/internal/common/config"
	"svrmgr/internal/common/httpapi"
	"svrmgr/internal/common/logger"
	"svrmgr/internal/common/metrics"
	"svrmgr/internal/common/observability"
	"svrmgr/internal/controller"
	"svrmgr/internal/directory"
	"svrmgr/internal/router"
	"svrmgr/internal/transport"
)

func main() {
	zapLog := logger.New("info", "json")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	ec2Client, err := commonaws.NewEC2Client(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("EC2 client init failed", zap.Error(err))
	}

	verifier, err := auth.NewVerifier(cfg.Discord.AppPublicKey, log)
	if err != nil {
		zapLog.Fatal("verifier init failed", zap.Error(err))
	}

	dir := directory.New(ec2Client, cfg.AWS.OwnershipTagKey, log)
	ctrl := controller.New(ec2Client, log)
	rt := router.New(verifier, dir, ctrl, log)

	zapLog.Info("starting interaction handler",
		zap.String("tagKey", cfg.AWS.OwnershipTagKey),
		zap.Bool("verificationEnabled", cfg.Discord.AppPublicKey != ""),
	)

	lambda.Start(func(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		reqLog := log.WithFields(map[string]interface{}{"requestId": uuid.NewString()})
		start := time.Now()

		var resp *httpapi.Response

		req, err := transport.Decode(event)
		if err != nil {
			reqLog.WithError(err).Error("event decode failed", nil)
			resp = httpapi.ResponseFromError(err)
		} else {
			reqLog.Info("received HTTP request", map[string]interface{}{
				"method": req.Method,
				"path":   req.Path,
			})

			resp, err = rt.Handle(ctx, req)
			if err != nil {
				reqLog.WithError(err).Error("request handling failed", nil)
				resp = httpapi.ResponseFromError(err)
				metrics.InteractionErrors.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
			}
		}

		status := strconv.Itoa(resp.StatusCode)
		obs.RecordInteraction(ctx, status)
		obs.RecordInteractionDuration(ctx, time.Since(start), status)

		reqLog.Info("returning HTTP response", map[string]interface{}{"status": resp.StatusCode})
		return transport.Encode(resp)
	})
}
