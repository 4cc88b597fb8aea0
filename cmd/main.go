package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	collision "github.com/fyh275905/sofa-sub003"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var version = "v0.1.0"

// Keeps the config field names readable by the cli package when obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	Scene       string `cli:""        env:"SOFA_SCENE"        help:"TOML scene file. The embedded demo scene is used when empty."`
	Steps       int    `cli:""        env:"SOFA_STEPS"        help:"Number of collision steps to run."`
	MetricsAddr string `cli:""        env:"SOFA_METRICS_ADDR" help:"Listening address for Prometheus metrics. Disabled when empty."`
	LogLevel    string `cli:""        env:"SOFA_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	LogIndent   bool   `cli:""        env:"SOFA_LOG_INDENT"   help:"Indent logs."`
	Verbose     bool   `cli:",hidden" env:"SOFA_VERBOSE"      help:"Log every contact update."`
	Version     bool   `cli:""        env:"-"                 help:"Show version."`
	Help        bool   `cli:""        env:"-"                 help:"Show help."`
}

func main() {
	conf := config{
		Steps:    20,
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a collision scene and reports its contacts.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if conf.MetricsAddr != "" {
		go serveMetrics(ctx, conf.MetricsAddr)
	}

	s, err := loadScene(conf.Scene)
	if err != nil {
		logs.Fatal(err)
	}
	s.Pipeline.Verbose = s.Pipeline.Verbose || conf.Verbose

	bodies, err := s.bodies()
	if err != nil {
		logs.Fatal(err)
	}

	in := collision.RegisterSphereIntersectors(collision.NewIntersection(0, 0))
	pipeline, err := collision.NewPipeline(s.Pipeline, collision.DefaultContactFactory(), in)
	if err != nil {
		logs.Fatal(errors.New("creating pipeline failed").Wrap(err))
	}
	for _, b := range bodies {
		pipeline.AddModel(b.model)
	}

	logs.WithTag("version", version).
		WithTag("scene", conf.Scene).
		WithTag("models", len(bodies)).
		WithTag("steps", conf.Steps).
		Info("starting collision scene")

	for i := 0; i < conf.Steps; i++ {
		if ctx.Err() != nil {
			break
		}
		for _, b := range bodies {
			b.move()
		}
		pipeline.Step()
		logStep(pipeline)
	}
}

func logStep(p *collision.Pipeline) {
	contacts := p.Manager().Contacts()
	constraints := 0
	for _, c := range contacts {
		constraints += len(c.Constraints())
	}

	logs.WithTag("step", p.Stamp()).
		WithTag("pairs", p.Outputs().Len()).
		WithTag("contacts", len(contacts)).
		WithTag("constraints", constraints).
		Info("step completed")

	for _, c := range contacts {
		logs.WithTag("step", p.Stamp()).
			WithTag("contact", c.Name()).
			WithTag("contact_id", c.ID()).
			WithTag("tags", c.Tags()).
			WithTag("state", c.State()).
			WithTag("constraints", len(c.Constraints())).
			Debug("contact")
	}
}

func serveMetrics(ctx context.Context, addr string) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{Addr: addr, Handler: &mux}

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.New("shutting down the metrics server failed").
				WithTag("addr", addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", addr).Info("starting metrics server")
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logs.Warn(errors.New("metrics server stopped").
			WithTag("addr", addr).
			Wrap(err))
	}
}
