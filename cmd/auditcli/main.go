// Command auditcli is a thin demo front end over pkg/audit: it reads an
// already-parsed area specification, transcript, and exception list
// from JSON files and prints the audited result tree. It is not part
// of the audited core and performs no specification loading logic
// beyond encoding/json unmarshalling.
package main

import (
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coursepath/auditengine/pkg/audit/areapointer"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/rule"
	"github.com/coursepath/auditengine/pkg/audit/solve"
	"github.com/coursepath/auditengine/pkg/audit/spec"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var areaPath, transcriptPath, exceptionsPath string

	cmd := &cobra.Command{
		Use:   "auditcli",
		Short: "auditcli",
		Long:  "Audit a student transcript against an area specification.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(areaPath, transcriptPath, exceptionsPath)
		},
	}

	cmd.Flags().StringVar(&areaPath, "area", "", "path to an area specification JSON file")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "path to a transcript JSON file (array of courses)")
	cmd.Flags().StringVar(&exceptionsPath, "exceptions", "", "path to an exceptions JSON file (array of exceptions)")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("area")
	_ = cmd.MarkFlagRequired("transcript")

	return cmd
}

func runAudit(areaPath, transcriptPath, exceptionsPath string) error {
	logger := log.New()
	logger.SetLevel(log.GetLevel())

	var area spec.AreaSpec
	if err := readJSON(areaPath, &area); err != nil {
		return err
	}

	var courses []transcript.Course
	if err := readJSON(transcriptPath, &courses); err != nil {
		return err
	}

	var exceptionSpecs []exception.Exception
	if exceptionsPath != "" {
		if err := readJSON(exceptionsPath, &exceptionSpecs); err != nil {
			return err
		}
	}

	built, err := rule.Build(area)
	if err != nil {
		return err
	}

	exceptionSet, err := exception.NewSet(exceptionSpecs, built.ValidPaths)
	if err != nil {
		return err
	}

	var pointers []areapointer.Pointer

	driver, err := solve.New(built,
		solve.WithLogger(logger),
		solve.WithTracer(solve.LoggingTracer{Logger: logger}),
		solve.WithExceptions(exceptionSet),
		solve.WithPointers(pointers),
	)
	if err != nil {
		return err
	}

	result, err := driver.Audit(courses)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if result == nil {
		return enc.Encode(map[string]any{"ok": false, "error": "no solution enumerated"})
	}
	return enc.Encode(result.ToMap())
}

func readJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}
