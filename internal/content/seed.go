// ABOUTME: TOML seed files imported through the content service
// ABOUTME: Seeded rows get the same validation, slug derivation and invalidation as admin writes

package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Seed is the decoded form of a seed file: one array of tables per entity.
type Seed struct {
	Projects     []ProjectInput     `toml:"projects"`
	Services     []ServiceInput     `toml:"services"`
	Testimonials []TestimonialInput `toml:"testimonials"`
	FAQs         []FAQInput         `toml:"faqs"`
	ProcessSteps []ProcessStepInput `toml:"process_steps"`
	Pages        []PageInput        `toml:"pages"`
}

// Len is the total number of rows in the seed.
func (sd *Seed) Len() int {
	return len(sd.Projects) + len(sd.Services) + len(sd.Testimonials) +
		len(sd.FAQs) + len(sd.ProcessSteps) + len(sd.Pages)
}

// LoadSeed reads a seed file from path.
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// DecodeSeed parses a seed document. Unknown keys are rejected so typos don't
// silently drop fields.
func DecodeSeed(r io.Reader) (*Seed, error) {
	var sd Seed
	md, err := toml.NewDecoder(r).Decode(&sd)
	if err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing seed: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &sd, nil
}

// ImportReport counts what an import wrote.
type ImportReport struct {
	Created  map[string]int
	Warnings []error
}

// Total is the number of rows created.
func (r *ImportReport) Total() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// Import creates every row in sd. It stops at the first failed write; rows
// written before it stay. Invalidation failures are collected as warnings.
func (s *Service) Import(ctx context.Context, sd *Seed) (*ImportReport, error) {
	report := &ImportReport{Created: make(map[string]int)}

	note := func(section string, invErr error) {
		report.Created[section]++
		if invErr != nil {
			report.Warnings = append(report.Warnings, fmt.Errorf("%s: %w", section, invErr))
		}
	}

	for i, in := range sd.ProcessSteps {
		res, err := s.CreateProcessStep(ctx, in)
		if err != nil {
			return report, fmt.Errorf("process_steps[%d]: %w", i, err)
		}
		note("process_steps", res.InvalidationErr)
	}
	for i, in := range sd.Services {
		res, err := s.CreateService(ctx, in)
		if err != nil {
			return report, fmt.Errorf("services[%d]: %w", i, err)
		}
		note("services", res.InvalidationErr)
	}
	for i, in := range sd.Projects {
		res, err := s.CreateProject(ctx, in)
		if err != nil {
			return report, fmt.Errorf("projects[%d]: %w", i, err)
		}
		note("projects", res.InvalidationErr)
	}
	for i, in := range sd.Testimonials {
		res, err := s.CreateTestimonial(ctx, in)
		if err != nil {
			return report, fmt.Errorf("testimonials[%d]: %w", i, err)
		}
		note("testimonials", res.InvalidationErr)
	}
	for i, in := range sd.FAQs {
		res, err := s.CreateFAQ(ctx, in)
		if err != nil {
			return report, fmt.Errorf("faqs[%d]: %w", i, err)
		}
		note("faqs", res.InvalidationErr)
	}
	for i, in := range sd.Pages {
		res, err := s.CreatePage(ctx, in)
		if err != nil {
			return report, fmt.Errorf("pages[%d]: %w", i, err)
		}
		note("pages", res.InvalidationErr)
	}

	if len(report.Warnings) > 0 {
		s.logger.Warn("seed imported with invalidation failures", "created", report.Total(), "error", errors.Join(report.Warnings...))
	} else {
		s.logger.Info("seed imported", "created", report.Total())
	}
	return report, nil
}
