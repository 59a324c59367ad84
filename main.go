package main

import (
	"net/http"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Jille/rebalance/config"
	"github.com/Jille/rebalance/dataview"
	"github.com/Jille/rebalance/sampler"
	"github.com/Jille/rebalance/seed"
	"github.com/Jille/rebalance/stats"
	"github.com/Jille/rebalance/tallier"
)

type record struct {
	ID    string `csv:"id"`
	Label string `csv:"label"`
}

type args struct {
	ConfigFile string `arg:"--config" help:"YAML run config; flags override it"`
	config.Config
}

func parseArgs() config.Config {
	a := args{Config: config.Default()}
	arg.MustParse(&a)
	if a.ConfigFile != "" {
		c, err := config.Load(a.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		a.Config = c
		arg.MustParse(&a)
	}
	return a.Config
}

func loadLabels(path string) ([]*record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var records []*record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func main() {
	cfg := parseArgs()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := log.WithFields(log.Fields{"run": uuid.New().String()})

	src := seed.All(cfg.Seed, cfg.Deterministic)
	records, err := loadLabels(cfg.Labels)
	if err != nil {
		logger.Fatalf("Failed to read labels from %s: %v", cfg.Labels, err)
	}
	mode, _ := cfg.SamplingMode()
	s, err := sampler.FromItems(records, mode, func(r *record) string { return r.Label }, src)
	if err != nil {
		logger.Fatalf("Failed to build sampler: %v", err)
	}
	logger.WithFields(log.Fields{
		"items":   len(records),
		"classes": s.Classes(),
		"mode":    mode,
		"draws":   s.Len(),
	}).Info("Sampler ready")

	var classes []string
	seen := map[string]bool{}
	for _, r := range records {
		if !seen[r.Label] {
			seen[r.Label] = true
			classes = append(classes, r.Label)
		}
	}

	view := dataview.New[*record](dataview.Slice[*record](records), s, cfg.ViewMode())
	if seed.Deterministic() && cfg.ViewMode() == dataview.Regenerate {
		logger.Warn("Regenerating view redraws on every lookup; batches are only reproducible when read in the same order")
	}
	tracker := stats.NewTracker(cfg.Prefix, cfg.Format)
	throughput, err := tallier.New(500*time.Millisecond, 30*time.Second)
	if err != nil {
		logger.Fatalf("Failed to set up throughput counter: %v", err)
	}

	if cfg.MetricsAddr != "" {
		prometheus.MustRegister(tracker.Collector("rebalance"))
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Fatal(http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		tracker.Reset()
		if cfg.ViewMode() == dataview.Snapshot {
			view.BeginEpoch()
		}
		for start := 0; start < view.Len(); start += cfg.BatchSize {
			batch, err := nextBatch(view, start, cfg.BatchSize)
			if err != nil {
				logger.Fatalf("Epoch %d: %v", epoch, err)
			}
			tracker.UpdateMap(batchStats(batch, classes), len(batch))
			throughput.TallyN(int64(len(batch)))
		}
		logger.WithFields(log.Fields{
			"epoch":      epoch,
			"items_rate": throughput.Rate(),
		}).Info(tracker.String())
	}
}

func nextBatch(view *dataview.View[*record], start, size int) ([]*record, error) {
	end := start + size
	if end > view.Len() {
		end = view.Len()
	}
	batch := make([]*record, 0, end-start)
	for p := start; p < end; p++ {
		r, err := view.At(p)
		if err != nil {
			return nil, err
		}
		batch = append(batch, r)
	}
	return batch, nil
}

// batchStats reports the share of every class in the batch and how many
// items in it are distinct.
func batchStats(batch []*record, classes []string) map[string]float64 {
	ret := map[string]float64{}
	for _, c := range classes {
		ret["share_"+c] = 0
	}
	seen := map[string]bool{}
	for _, r := range batch {
		ret["share_"+r.Label] += 1 / float64(len(batch))
		seen[r.ID] = true
	}
	ret["distinct"] = float64(len(seen)) / float64(len(batch))
	return ret
}
