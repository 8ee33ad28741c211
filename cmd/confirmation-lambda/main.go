package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/leadflow/cmd/mainconfig"
	"github.com/wolfman30/leadflow/internal/app/bootstrap"
	"github.com/wolfman30/leadflow/internal/confirmation"
	appconfig "github.com/wolfman30/leadflow/internal/config"
	httpmiddleware "github.com/wolfman30/leadflow/internal/http/middleware"
	"github.com/wolfman30/leadflow/internal/http/respond"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// confirmationSender is the slice of confirmation.Service the handler needs.
type confirmationSender interface {
	Send(ctx context.Context, in leads.LeadInput) (confirmation.Result, error)
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var awsCfg *aws.Config
	if mainconfig.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		awsCfg = &loaded
	}

	llmClient, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to build text generation client", "error", err)
		os.Exit(1)
	}
	emailSender, provider, err := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}

	svc := bootstrap.BuildConfirmationService(cfg, bootstrap.ConfirmationDeps{
		LLM:      llmClient,
		Email:    emailSender,
		Provider: provider,
		AWS:      awsCfg,
	}, logger)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, svc, logger, evt)
	})
}

func handle(ctx context.Context, svc confirmationSender, logger *logging.Logger, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	if method == http.MethodOptions {
		return respondJSON(http.StatusNoContent, nil), nil
	}

	if path != "/send-confirmation" {
		return respondJSON(http.StatusNotFound, respond.NewFailure("not found")), nil
	}
	if method != http.MethodPost {
		return respondJSON(http.StatusMethodNotAllowed, respond.NewFailure("method not allowed")), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return respondJSON(http.StatusBadRequest, respond.NewFailure("invalid request body")), nil
	}
	var in leads.LeadInput
	if err := json.Unmarshal(body, &in); err != nil {
		logger.Warn("failed to decode confirmation request", "error", err)
		return respondJSON(http.StatusBadRequest, respond.NewFailure("invalid request body")), nil
	}

	result, err := svc.Send(ctx, in)
	if err != nil {
		var verrs leads.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]respond.FieldError, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, respond.FieldError{Field: v.Field, Message: v.Message})
			}
			return respondJSON(http.StatusBadRequest, respond.NewFailure("validation failed", fields...)), nil
		}
		logger.Error("confirmation failed", "error", err)
		return respondJSON(http.StatusInternalServerError, respond.NewFailure(err.Error())), nil
	}
	return respondJSON(http.StatusOK, result), nil
}

// respondJSON builds a response carrying the permissive CORS header set.
// A nil payload yields an empty body.
func respondJSON(status int, payload any) events.APIGatewayV2HTTPResponse {
	h := http.Header{}
	httpmiddleware.SetCORSHeaders(h, "*")
	headers := make(map[string]string, len(h)+1)
	for k := range h {
		headers[strings.ToLower(k)] = h.Get(k)
	}

	out := events.APIGatewayV2HTTPResponse{StatusCode: status, Headers: headers}
	if payload == nil {
		return out
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		out.StatusCode = http.StatusInternalServerError
		return out
	}
	headers["content-type"] = "application/json"
	out.Body = string(raw)
	return out
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
