package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/env"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// RecordFunc is called after every executed request, e.g. to persist it.
type RecordFunc func(ctx context.Context, res *RequestResult)

type Config struct {
	Iterations int
	// Delay is the minimum spacing between two requests.
	Delay          time.Duration
	Bail           bool
	NameFilter     string
	Timeout        time.Duration
	FollowRedirect bool
	// Variables override collection and environment values.
	Variables map[string]any
	Recorder  RecordFunc
	// Client replaces the client built from Timeout and FollowRedirect.
	Client *http.Client
}

type Runner struct {
	client      *http.Client
	config      *Config
	environment map[string]any
	warnFunc    env.WarnFunc
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirect: true}
	}

	client := cfg.Client
	if client == nil {
		clientOpts := []http.ClientOption{}
		if cfg.Timeout > 0 {
			clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
		}
		clientOpts = append(clientOpts, http.WithFollowRedirects(cfg.FollowRedirect))
		client = http.NewClient(clientOpts...)
	}

	return &Runner{
		client: client,
		config: cfg,
	}
}

// SetEnvironment sets the environment scope used by later runs.
func (r *Runner) SetEnvironment(e *postman.Environment) {
	if e == nil {
		r.environment = nil
		return
	}
	r.environment = e.Variables()
}

// SetWarnFunc receives unresolved variable warnings.
func (r *Runner) SetWarnFunc(fn env.WarnFunc) {
	r.warnFunc = fn
}

type RunResult struct {
	Collection string
	Results    []*RequestResult
	Duration   time.Duration
	Passed     int
	Failed     int
	Skipped    int
	Stats      Stats
}

// Success reports whether every executed request passed.
func (r *RunResult) Success() bool {
	return r.Failed == 0
}

type RequestResult struct {
	Name string
	// Folders lists the enclosing folder names, outermost first.
	Folders    []string
	Iteration  int
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	// Source is the request document after variable resolution.
	Source   *postman.Request
	Request  *http.PreparedRequest
	Response *http.Response
	Error    error
}

// Path joins the folder names and the request name with '/'.
func (r *RequestResult) Path() string {
	return joinPath(r.Folders, r.Name)
}

// RunFile loads a collection file and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}
	c, err := postman.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing collection: %w", err)
	}
	return r.Run(ctx, c)
}

type plannedRequest struct {
	item    *postman.Item
	folders []string
	auth    *postman.Auth
}

// Run executes every request of c for the configured number of
// iterations. A cancelled ctx stops the run and returns the partial result
// together with the context error.
func (r *Runner) Run(ctx context.Context, c *postman.Collection) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{Collection: c.Info.Name}

	resolver := r.newResolver(c)
	plan := planRequests(c)

	iterations := r.config.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	var limiter *rate.Limiter
	if r.config.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(r.config.Delay), 1)
	}

	stats := newLatencies()
	var runErr error

run:
	for iter := 1; iter <= iterations; iter++ {
		for _, p := range plan {
			if !r.shouldRun(p) {
				result.Results = append(result.Results, &RequestResult{
					Name:       p.item.Name,
					Folders:    p.folders,
					Iteration:  iter,
					Skipped:    true,
					SkipReason: "filtered out",
				})
				result.Skipped++
				continue
			}

			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					runErr = err
					break run
				}
			}
			if err := ctx.Err(); err != nil {
				runErr = err
				break run
			}

			reqResult := r.executeRequest(ctx, resolver, p)
			reqResult.Iteration = iter
			result.Results = append(result.Results, reqResult)
			stats.record(reqResult.Duration, reqResult.Passed)

			if r.config.Recorder != nil {
				r.config.Recorder(ctx, reqResult)
			}

			if reqResult.Passed {
				result.Passed++
			} else {
				result.Failed++
				if r.config.Bail {
					break run
				}
			}
		}
	}

	result.Stats = stats.snapshot()
	result.Duration = time.Since(start)
	return result, runErr
}

func (r *Runner) newResolver(c *postman.Collection) *env.Resolver {
	resolver := env.NewResolver()
	if r.warnFunc != nil {
		resolver.SetWarnFunc(r.warnFunc)
	}
	resolver.SetPostmanVariables(c.Variable)
	resolver.SetVariables(r.environment)
	resolver.SetVariables(r.config.Variables)
	return resolver
}

// planRequests flattens the collection and resolves the effective auth of
// every request: its own, else the nearest folder's, else the collection's.
// An explicit noauth anywhere on that chain stops the lookup.
func planRequests(c *postman.Collection) []plannedRequest {
	var plan []plannedRequest
	_ = c.Walk(func(item *postman.Item, parents []*postman.Item) error {
		folders := make([]string, len(parents))
		auth := c.Auth
		for i, p := range parents {
			folders[i] = p.Name
			if p.Auth != nil {
				auth = p.Auth
			}
		}
		if item.Request.Auth != nil {
			auth = item.Request.Auth
		}
		plan = append(plan, plannedRequest{item: item, folders: folders, auth: auth})
		return nil
	})
	return plan
}

func (r *Runner) shouldRun(p plannedRequest) bool {
	if r.config.NameFilter == "" {
		return true
	}
	return matchesPattern(joinPath(p.folders, p.item.Name), r.config.NameFilter)
}

func (r *Runner) executeRequest(ctx context.Context, resolver *env.Resolver, p plannedRequest) *RequestResult {
	result := &RequestResult{
		Name:    p.item.Name,
		Folders: p.folders,
	}

	req := *p.item.Request
	req.Auth = p.auth
	resolved := resolver.ResolveRequest(&req)
	result.Source = resolved

	resp, err := r.client.Execute(ctx, resolved)
	if err != nil {
		result.Error = err
		var execErr *http.ExecError
		if errors.As(err, &execErr) {
			result.Duration = execErr.Duration
			result.Request = execErr.Request
		}
		return result
	}

	result.Response = resp
	result.Request = resp.Request
	result.Duration = resp.Duration
	result.Passed = resp.StatusCode < 400
	return result
}

func joinPath(folders []string, name string) string {
	if len(folders) == 0 {
		return name
	}
	return strings.Join(folders, "/") + "/" + name
}

// matchesPattern matches name against a filter. Without '*' the filter is
// a case-insensitive substring; with a leading or trailing '*' it is a
// suffix or prefix match.
func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	name = strings.ToLower(name)
	pattern = strings.ToLower(pattern)

	starts := strings.HasPrefix(pattern, "*")
	ends := len(pattern) > 1 && strings.HasSuffix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")

	switch {
	case starts && ends, !starts && !ends:
		return strings.Contains(name, core)
	case starts:
		return strings.HasSuffix(name, core)
	default:
		return strings.HasPrefix(name, core)
	}
}
