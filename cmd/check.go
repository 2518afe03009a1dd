package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/palassaha/SC2-Backend/internal/ai"
	"github.com/palassaha/SC2-Backend/internal/eligibility"
	"github.com/palassaha/SC2-Backend/internal/logger"
	"github.com/palassaha/SC2-Backend/internal/placement"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptFullReport      = "Show the full report"
	PromptRecommendations = "Show the recommendations"
	PromptReportToFile    = "Dump the report to a file"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var reportPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptFullReport, PromptRecommendations, PromptReportToFile, PromptExit},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate one eligibility payload and explore the report",
	Run: func(cmd *cobra.Command, _ []string) {
		check(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("file", "f", "", "a JSON file with the {user, post} payload")
	checkCmd.Flags().BoolP("auto-approve", "y", false, "print the report as JSON and exit without a menu")
}

// check evaluates a single payload the same way the HTTP endpoint does,
// with the oracle when it is configured and on local rules otherwise.
func check(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	payloadFile := cmd.Flag("file").Value.String()
	if payloadFile == "" {
		logger.Fatal("a payload file is required", zap.String("hint", "pass --file payload.json"))
	}

	payload, err := loadPayload(payloadFile)
	if err != nil {
		logger.Fatal("loading the payload", zap.Error(err))
	}

	deps := &eligibility.Deps{Logger: logger}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Warn("skipping the AI oracle, running on local rules only", zap.Error(err))
	} else {
		deps.Oracle = ai.NewRemoteEvaluator(generator, logger, maxLogLength(config))
	}

	report := eligibility.New(deps).Check(ctx, payload)

	logger.Info("payload evaluated",
		zap.String("candidate", report.Name),
		zap.Bool("eligible", report.IsEligible),
		zap.String("skills_status", string(report.Breakdown.Skills.Status)),
	)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		pretty, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		_, action, err := reportPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleReportAction(action, report, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleReportAction(action string, report *placement.EligibilityReport, logger *zap.Logger) error {
	switch action {
	case PromptFullReport:
		pretty, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptRecommendations:
		for _, recommendation := range report.Recommendations {
			fmt.Println("- " + recommendation)
		}
		return nil
	case PromptReportToFile:
		filename, err := report.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping the report to a file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadPayload(filename string) (*placement.Payload, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var payload placement.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if payload.User == nil {
		return nil, fmt.Errorf("%s has no user object", filename)
	}

	return &payload, nil
}
