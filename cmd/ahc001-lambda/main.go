// ahc001-lambda runs one optimisation job per AWS Lambda function URL
// invocation. The request body is a JSON job; the wall-clock budget is
// clipped to the invocation deadline.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hinohi/ahc001/internal/engine"
	"github.com/hinohi/ahc001/internal/model"
	"github.com/hinohi/ahc001/internal/project"
	"github.com/hinohi/ahc001/internal/server"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type handler struct {
	opts engine.Options
	log  *slog.Logger
}

func (h handler) invoke(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req server.JobRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}

	resp, _, err := server.RunJob(ctx, req, h.opts)
	switch {
	case err == nil:
	case server.IsBadRequest(err):
		h.log.Warn("rejected job", slog.String("message_id", req.MessageID), slog.Any("error", err))
		return errResp(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Error("job timed out", slog.String("message_id", req.MessageID))
		return errResp(http.StatusGatewayTimeout, err.Error())
	default:
		h.log.Error("job failed", slog.String("message_id", req.MessageID), slog.Any("error", err))
		return errResp(http.StatusInternalServerError, err.Error())
	}

	respJSON, err := json.Marshal(resp)
	if err != nil {
		return errResp(http.StatusInternalServerError, err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func newHandler(lookup func(string) (string, bool)) (handler, error) {
	cfg, err := project.ApplyEnv(model.DefaultAppConfig(), lookup)
	if err != nil {
		return handler{}, err
	}
	logger, err := project.NewJSONLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return handler{}, err
	}
	return handler{
		opts: engine.Options{
			TimeLimit:  cfg.TimeLimit(),
			Rounds:     cfg.Rounds,
			IndexDepth: cfg.IndexDepth,
			Logger:     logger,
		},
		log: logger,
	}, nil
}

func main() {
	h, err := newHandler(os.LookupEnv)
	if err != nil {
		slog.Error("configure", slog.Any("error", err))
		os.Exit(1)
	}
	lambda.Start(h.invoke)
}
