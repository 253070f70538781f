// ABOUTME: Tests for TOML seed decoding and import through the content service
// ABOUTME: Covers unknown-key rejection, section counts and stop-at-first-error

package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/folio/internal/store"
)

const sampleSeed = `
[[process_steps]]
title = "Discover"
display_order = 1

[[services]]
title = "UX Research"
deliverables = ["Interview synthesis", "Journey map"]
featured = true

[[projects]]
title = "Patient Engagement! 2.0"
tags = ["health", "mobile"]
featured = true

[[projects]]
title = "Internal Tools"
slug = "internal-tools"
scheduled = true

[[testimonials]]
quote = "Calm, careful, fast."
author = "Dana"

[[faqs]]
question = "Do you work remotely?"
answer = "Yes."
category = "engagement"

[[pages]]
slug = "home"
title = "Home"
content = "Welcome."
`

func TestDecodeSeed(t *testing.T) {
	sd, err := DecodeSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	assert.Equal(t, 7, sd.Len())
	require.Len(t, sd.Projects, 2)
	assert.Equal(t, []string{"health", "mobile"}, sd.Projects[0].Tags)
	assert.True(t, sd.Projects[1].Scheduled)
	assert.Equal(t, "engagement", sd.FAQs[0].Category)
}

func TestDecodeSeed_RejectsUnknownKeys(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader(`
[[projects]]
title = "Typo"
featurd = true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "featurd")
}

func TestDecodeSeed_Malformed(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader(`[[projects]`))
	require.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0600))

	sd, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, 7, sd.Len())

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestImport(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	sd, err := DecodeSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	report, err := svc.Import(ctx, sd)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Total())
	assert.Equal(t, 2, report.Created["projects"])
	assert.Equal(t, 1, report.Created["pages"])
	assert.Empty(t, report.Warnings)

	p, err := st.GetProjectBySlug(ctx, "patient-engagement-20")
	require.NoError(t, err)
	assert.True(t, p.Featured)

	home, err := st.GetPageBySlug(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Welcome.", home.Content)

	assert.True(t, rec.called("path:/"))
	assert.True(t, rec.called("path:/work/internal-tools"))
	assert.True(t, rec.called("tag:faqs"))
}

func TestImport_StopsAtFirstInvalidRow(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	sd := &Seed{
		Services: []ServiceInput{{Title: "Strategy"}},
		Projects: []ProjectInput{{Title: "Good"}, {Title: ""}, {Title: "Never written"}},
	}

	report, err := svc.Import(ctx, sd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projects[1]")

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	assert.Equal(t, 1, report.Created["services"])
	assert.Equal(t, 1, report.Created["projects"])

	projects, err := st.ListProjects(ctx, store.ListFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Good", projects[0].Title)
}

func TestImport_InvalidationFailuresAreWarnings(t *testing.T) {
	svc, _, rec := newTestService(t)
	rec.fail = map[string]error{"tag:faqs": errors.New("cache unavailable")}

	report, err := svc.Import(context.Background(), &Seed{
		FAQs: []FAQInput{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total())
	assert.Len(t, report.Warnings, 2)
}
