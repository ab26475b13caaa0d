package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/alonana/perfshark/browser"
	"github.com/alonana/perfshark/capture"
	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/devtools/line"
	"github.com/alonana/perfshark/exporters"
	"github.com/alonana/perfshark/filter"
	"github.com/alonana/perfshark/metrics"
)

type EntryPoint struct {
	Output  io.Writer
	Runtime browser.Runtime
}

// Run executes a single capture and returns the process exit code.
func (p *EntryPoint) Run() int {
	core.Info("Starting")
	if p.Output == nil {
		p.Output = os.Stdout
	}

	if core.Config.MetricsAddress != "" {
		http.Handle("/metrics", metrics.Handler())
		go func() {
			core.Warn("HTTP SERVER: %v", http.ListenAndServe(core.Config.MetricsAddress, nil))
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	orchestrator := capture.CreateOrchestrator(p.Runtime)
	var result *capture.Result
	if core.Config.InputFile != "" {
		result = p.processFile(orchestrator)
	} else {
		result = p.capture(ctx, orchestrator)
	}

	p.report(orchestrator, result)
	core.Info("Terminating complete")
	if result.Status != capture.StatusSuccess {
		return 1
	}
	return 0
}

func (p *EntryPoint) capture(ctx context.Context, orchestrator *capture.Orchestrator) *capture.Result {
	if orchestrator.Runtime == nil {
		devTools, err := browser.NewDevTools(core.Config.DevTools)
		if err != nil {
			core.Fatal("create devtools runtime failed: %v", err)
		}
		orchestrator.Runtime = devTools
	}

	return orchestrator.CaptureNetwork(ctx, capture.Request{
		URL:      core.Config.Url,
		Settle:   core.Config.Settle,
		Category: core.Config.Category,
		SavePath: core.Config.SavePath,
	})
}

func (p *EntryPoint) processFile(orchestrator *capture.Orchestrator) *capture.Result {
	category, err := filter.ParseCategory(core.Config.Category)
	if err != nil {
		return capture.Failure(core.Config.InputFile, err)
	}

	entries, err := line.ReadFile(core.Config.InputFile)
	if err != nil {
		return capture.Failure(core.Config.InputFile, err)
	}

	result := orchestrator.ProcessLog(entries, category)
	result.URL = core.Config.InputFile
	if core.Config.SavePath != "" {
		orchestrator.Save(result, core.Config.SavePath)
	}
	return result
}

func (p *EntryPoint) report(orchestrator *capture.Orchestrator, result *capture.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		core.Fatal("marshal result failed: %v", err)
	}
	_, err = p.Output.Write(append(data, '\n'))
	if err != nil {
		core.Warn("write result failed: %v", err)
	}

	orchestrator.Diagnostics.Print()
	orchestrator.Diagnostics.PublishToCloudWatch(core.Config.CloudWatchNamespace)

	if result.Status == capture.StatusSuccess {
		if core.Config.SitesStatsFile != "" {
			stats := exporters.SitesStats{}
			stats.Process(result.Requests)
			location, err := stats.Save(core.Config.SitesStatsFile)
			if err != nil {
				core.Warn("%v", err)
			} else {
				core.Info("sites statistics saved to %v", location)
			}
		}
		exporters.CreateRunStats().Process(result.Requests, result.DroppedEntries)
	}

	if core.Config.Summary {
		PrintSummary(os.Stderr, result)
	}
}
