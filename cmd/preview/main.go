// Command preview generates a confirmation for a sample lead and writes the
// rendered HTML, optionally delivering it through the configured provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"

	"github.com/wolfman30/leadflow/cmd/mainconfig"
	"github.com/wolfman30/leadflow/internal/app/bootstrap"
	"github.com/wolfman30/leadflow/internal/confirmation"
	appconfig "github.com/wolfman30/leadflow/internal/config"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/pkg/logging"
)

type options struct {
	lead leads.LeadInput
	out  string
	send bool
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.lead.Name, "name", "John Doe", "lead name")
	fs.StringVar(&opts.lead.Email, "email", "john@example.com", "lead email")
	fs.StringVar(&opts.lead.Industry, "industry", string(leads.IndustryTechnology), "lead industry")
	fs.StringVar(&opts.out, "out", "", "write rendered HTML to this file instead of stdout")
	fs.BoolVar(&opts.send, "send", false, "deliver the confirmation through EMAIL_PROVIDER")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout+cfg.EmailTimeout+10*time.Second)
	defer cancel()

	var awsCfg *aws.Config
	if mainconfig.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("load AWS config: %v", err)
		}
		awsCfg = &loaded
	}

	llmClient, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		log.Fatalf("build text generation client: %v", err)
	}

	if opts.send {
		emailSender, provider, err := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
		if err != nil {
			log.Fatalf("build email sender: %v", err)
		}
		svc := bootstrap.BuildConfirmationService(cfg, bootstrap.ConfirmationDeps{
			LLM:      llmClient,
			Email:    emailSender,
			Provider: provider,
			AWS:      awsCfg,
		}, logger)
		result, err := svc.Send(ctx, opts.lead)
		if err != nil {
			log.Fatalf("send confirmation: %v", err)
		}
		fmt.Printf("delivered via %s: message_id=%s source=%s\n", provider, result.MessageID, result.ContentSource)
		return
	}

	generator := confirmation.NewGenerator(llmClient, confirmation.GeneratorConfig{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   int32(cfg.LLMMaxTokens),
		WordLimit:   cfg.ContentWordLimit,
	}, logger)

	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			log.Fatalf("create %s: %v", opts.out, err)
		}
		defer f.Close()
		w = f
	}

	source, err := preview(ctx, w, generator, confirmation.NewRenderer(cfg.EmailFromName), opts.lead)
	if err != nil {
		log.Fatalf("preview: %v", err)
	}
	log.Printf("content source: %s", source)
}

// preview validates the lead, generates its message and writes the rendered
// document to w. It returns the content source (ai or fallback).
func preview(ctx context.Context, w io.Writer, generator *confirmation.Generator, renderer *confirmation.Renderer, lead leads.LeadInput) (string, error) {
	if errs := leads.Validate(lead); len(errs) > 0 {
		return "", leads.ValidationErrors(errs)
	}
	content := generator.Generate(ctx, lead)
	html, err := renderer.Render(lead, content.Text)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, html); err != nil {
		return "", err
	}
	return content.Source, nil
}
