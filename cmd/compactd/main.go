// compactd runs the background compaction daemon: a kcompactd analog
// wired to a synthetic node set (see package demo) since this repo has
// no real kernel page tables to attach to.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/pageframe-os/compactd/compact"
	"github.com/pageframe-os/compactd/config"
	"github.com/pageframe-os/compactd/daemon"
	"github.com/pageframe-os/compactd/demo"
	"github.com/pageframe-os/compactd/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

func main() {
	configPath := flag.String("config", "", "path to a tunables TOML file")
	schedule := flag.String("schedule", "*/10 * * * * *", "robfig/cron schedule for compaction passes")
	listenAddr := flag.String("listen", ":9112", "address to serve /metrics on")
	nodeCount := flag.Int("nodes", 1, "number of synthetic nodes to compact")
	blocksPerZone := flag.Int("blocks", 8, "page-blocks per synthetic zone")
	flag.Parse()

	log.SetFormatter(&log.JSONFormatter{})

	tunables := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		tunables = loaded
	}

	nodes := make([]*compact.Node_t, 0, *nodeCount)
	for i := 0; i < *nodeCount; i++ {
		nodes = append(nodes, demo.SampleNode(i, *blocksPerZone))
	}

	registry := prometheus.NewRegistry()
	collector := stats.NewCollector(registry)

	d := daemon.New(nodes, tunables, collector, log.StandardLogger())
	if err := d.Start(*schedule); err != nil {
		log.WithError(err).Fatal("failed to start daemon")
	}

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(*listenAddr, nil); err != nil {
			log.WithError(err).Warn("metrics server exited")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	d.Stop()
}
