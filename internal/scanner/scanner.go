package scanner

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/config"
	"github.com/grahamcooke/apphound/internal/progress"
)

// Scanner audits the filesystem footprint of applications. It expands the
// default and configured locations for each app, dedupes the candidates,
// probes each path, and classifies what it finds.
type Scanner struct {
	expander *Expander
	deepHome *DeepHomeScanner
	reporter *progress.Reporter
	log      *logrus.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReporter attaches a progress reporter. Without one, progress updates
// are dropped.
func WithReporter(r *progress.Reporter) Option {
	return func(s *Scanner) { s.reporter = r }
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Scanner) { s.log = log }
}

// WithDeepHomeCap overrides how many matches the deep home walk may record.
func WithDeepHomeCap(cap int) Option {
	return func(s *Scanner) { s.deepHome.Cap = cap }
}

// New creates a Scanner rooted at the current user's home directory. An
// unresolvable home is not fatal here: the expander records skip notes for
// home-relative templates instead.
func New(opts ...Option) *Scanner {
	return newScanner(NewExpander(), opts...)
}

// NewWithHome creates a Scanner with an explicit home directory, mainly for
// tests.
func NewWithHome(home string, opts ...Option) *Scanner {
	return newScanner(NewExpanderWithHome(home), opts...)
}

func newScanner(expander *Expander, opts ...Option) *Scanner {
	s := &Scanner{
		expander: expander,
		deepHome: NewDeepHomeScanner(expander.Home()),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanApp audits a single application and returns everything found. The
// result always carries an entry per unique candidate path, whether or not
// the path exists.
func (s *Scanner) ScanApp(app config.App) artifact.ScanResult {
	start := time.Now()
	result := artifact.ScanResult{
		AppName:     app.Name,
		RunID:       uuid.NewString(),
		GeneratedAt: start.UTC(),
	}

	s.reporter.Update(&progress.ScanProgress{
		Phase:     progress.PhaseExpanding,
		AppName:   app.Name,
		StartTime: start,
	})

	candidates := DefaultCandidates(app.Name, s.expander.Home())

	configured, notes := s.expander.ConfiguredCandidates(app.AdditionalLocations, app.Patterns)
	candidates = append(candidates, configured...)
	result.Errors = append(result.Errors, notes...)

	if app.DeepHomeSearch {
		discovered, notes := s.deepHome.Scan(app.Name)
		candidates = append(candidates, discovered...)
		result.Errors = append(result.Errors, notes...)
	}

	candidates = Dedupe(candidates)

	s.log.WithFields(logrus.Fields{
		"app":        app.Name,
		"candidates": len(candidates),
	}).Debug("probing candidates")

	result.Artifacts = probeAll(app.Name, candidates, func(path string, probed int) {
		s.reporter.Update(&progress.ScanProgress{
			Phase:       progress.PhaseProbing,
			AppName:     app.Name,
			CurrentPath: path,
			Candidates:  len(candidates),
			Probed:      probed,
			StartTime:   start,
		})
	})

	for i := range result.Artifacts {
		a := &result.Artifacts[i]
		a.Category, a.RemovalSafety = Classify(a.Path, a.Scope, a.Exists)
	}

	s.reporter.Update(&progress.ScanProgress{
		Phase:          progress.PhaseComplete,
		AppName:        app.Name,
		Candidates:     len(candidates),
		Probed:         len(candidates),
		ArtifactsFound: len(result.Existing()),
		StartTime:      start,
	})

	return result
}

// ScanAll audits every configured application in parallel and returns the
// results sorted by app name, so reports are stable run to run. A failure
// in one app never aborts the others.
func (s *Scanner) ScanAll(apps []config.App) []artifact.ScanResult {
	if len(apps) == 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > len(apps) {
		workers = len(apps)
	}
	if workers > 8 {
		workers = 8
	}

	jobs := make(chan config.App, len(apps))
	resultCh := make(chan artifact.ScanResult, len(apps))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for app := range jobs {
				resultCh <- s.scanIsolated(app)
			}
		}()
	}

	for _, app := range apps {
		jobs <- app
	}
	close(jobs)
	wg.Wait()
	close(resultCh)

	results := make([]artifact.ScanResult, 0, len(apps))
	for result := range resultCh {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].AppName < results[j].AppName
	})

	// Results from one batch share a run id so reports can be correlated.
	runID := uuid.NewString()
	for i := range results {
		results[i].RunID = runID
	}
	return results
}

// scanIsolated runs ScanApp and converts a panic into an error entry, so a
// bad app definition cannot take down a batch scan.
func (s *Scanner) scanIsolated(app config.App) (result artifact.ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("app", app.Name).Errorf("scan panicked: %v", r)
			result = artifact.ScanResult{
				AppName:     app.Name,
				GeneratedAt: time.Now().UTC(),
				Errors:      []string{fmt.Sprintf("scan failed: %v", r)},
			}
			s.reporter.Update(&progress.ScanProgress{
				Phase:   progress.PhaseError,
				AppName: app.Name,
				Error:   fmt.Errorf("%v", r),
			})
		}
	}()
	return s.ScanApp(app)
}
