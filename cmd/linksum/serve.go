package main

import (
	"fmt"

	linksumhttp "github.com/fwojciec/linksum/http"
	"github.com/fwojciec/linksum/mcp"
	"go.uber.org/zap"
)

// Run executes the serve command. It blocks until the context is cancelled,
// then waits for detached callback analyses to finish.
func (c *ServeCmd) Run(deps *Dependencies) error {
	tools := &mcp.Server{
		Analyzer: deps.Analyzer,
		Analyses: deps.Analyses,
		Tags:     deps.Tags,
		Notifier: deps.Notifier,
		Version:  deps.Version,
		Logger:   deps.Logger,
	}

	s := linksumhttp.NewServer()
	s.Addr = c.Addr
	s.Analyzer = deps.Analyzer
	s.Analyses = deps.Analyses
	s.Tags = deps.Tags
	s.Notifier = deps.Notifier
	s.MCPHandler = tools.Handler()
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on %s: %v\n", c.Addr, err)
		return err
	}
	deps.Logger.Info("listening",
		zap.String("addr", c.Addr),
		zap.Int("port", s.Port()),
		zap.Bool("email", deps.Notifier != nil),
	)

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return s.Close()
}
