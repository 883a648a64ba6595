package match_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_FindBestMatch(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for empty candidates for every known type", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		for _, label := range m.DocumentTypes() {
			got, err := m.FindBestMatch(nil, label)
			require.NoError(t, err, label)
			assert.Nil(t, got, label)
		}
	})

	t.Run("returns ENOTFOUND for unknown type", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{{FileName: "statuts.pdf"}}

		got, err := m.FindBestMatch(candidates, "Nonexistent Type")

		assert.Nil(t, got)
		require.Error(t, err)
		assert.Equal(t, docscout.ENOTFOUND, docscout.ErrorCode(err))
	})

	t.Run("scores file name, keywords, link text, type token and priority", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{{FileName: "statuts-2024.pdf"}}

		got, err := m.FindBestMatch(candidates, "Statuts")
		require.NoError(t, err)
		require.NotNil(t, got)

		// file name 20+10, keywords statuts+statut 2*8, link text
		// statuts+statut 2*12, token "statuts" 15, priority 9.
		assert.Equal(t, 94, got.Score)
		assert.Equal(t, "Statuts", got.DocumentType)
		assert.Equal(t, docscout.ConfidenceHigh, got.Confidence())
	})

	t.Run("file name match without keywords scores bonus, token and priority", func(t *testing.T) {
		t.Parallel()

		table, err := match.LoadTable(strings.NewReader(`
- label: "Statuts"
  keywords: ["bylaws"]
  fileNamePatterns: ['statuts?[-_].*\.pdf', '.*statuts?.*\.pdf']
  linkTextPatterns: ["articles of association"]
  priority: 9
  scoreBonus: 20
`))
		require.NoError(t, err)
		m := match.NewMatcher(table)

		got, err := m.FindBestMatch([]docscout.CandidateLink{{FileName: "statuts-2024.pdf"}}, "Statuts")
		require.NoError(t, err)
		require.NotNil(t, got)

		// Two file name patterns match but the bonus applies once: 30 + 9 + 15.
		assert.Equal(t, 54, got.Score)
		assert.Equal(t, docscout.ConfidenceHigh, got.Confidence())
	})

	t.Run("selects key information document over brochure", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{
			{
				URL:      "https://example.com/docs/DIC-FR-202406-AB-123-4.pdf",
				FileName: "DIC-FR-202406-AB-123-4.pdf",
				Text:     "Document d'Informations Clés",
				Context:  "document d'informations clés",
			},
			{
				URL:      "https://example.com/docs/brochure-produit.pdf",
				FileName: "brochure-produit.pdf",
				Text:     "Brochure",
				Context:  "brochure",
			},
		}

		got, err := m.FindBestMatch(candidates, "Document d'Informations Clés (DIC)")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "DIC-FR-202406-AB-123-4.pdf", got.FileName)
		// file name 25+10, keywords dic, document d'informations clés and
		// informations clés 3*8, link text 3*12, priority 10.
		assert.Equal(t, 105, got.Score)
		assert.GreaterOrEqual(t, got.Score, 40)
		assert.Equal(t, docscout.ConfidenceHigh, got.Confidence())
	})

	t.Run("distinguishes quarterly from half-yearly bulletins", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{
			{FileName: "bulletin-2024-q2.pdf"},
			{FileName: "bulletin_2024_s1.pdf", Text: "Bulletin semestriel"},
		}

		quarterly, err := m.FindBestMatch(candidates, "Bulletin Trimestriel")
		require.NoError(t, err)
		require.NotNil(t, quarterly)
		assert.Equal(t, "bulletin-2024-q2.pdf", quarterly.FileName)
		assert.Equal(t, 70, quarterly.Score)

		halfYearly, err := m.FindBestMatch(candidates, "Bulletin Semestriel")
		require.NoError(t, err)
		require.NotNil(t, halfYearly)
		assert.Equal(t, "bulletin_2024_s1.pdf", halfYearly.FileName)
	})

	t.Run("keeps first candidate on equal score", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{
			{URL: "https://example.com/a/prospectus.pdf", FileName: "prospectus.pdf"},
			{URL: "https://example.com/b/prospectus.pdf", FileName: "prospectus.pdf"},
		}

		got, err := m.FindBestMatch(candidates, "Prospectus")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "https://example.com/a/prospectus.pdf", got.URL)
	})

	t.Run("later candidate with higher score replaces earlier one", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{
			{URL: "https://example.com/other.pdf", FileName: "other.pdf"},
			{URL: "https://example.com/prospectus.pdf", FileName: "prospectus.pdf"},
		}

		got, err := m.FindBestMatch(candidates, "Prospectus")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "https://example.com/prospectus.pdf", got.URL)
	})

	t.Run("unrelated candidate still matches through priority", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)

		got, err := m.FindBestMatch([]docscout.CandidateLink{{FileName: "other.pdf"}}, "Fiche Produit")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.Score)
		assert.Equal(t, docscout.ConfidenceLow, got.Confidence())
	})

	// A zero score is indistinguishable from having no candidates. The current
	// table never produces it because every priority is at least 2.
	t.Run("zero-scoring candidate is reported as no match", func(t *testing.T) {
		t.Parallel()

		table, err := match.LoadTable(strings.NewReader(`
- label: "Annexe"
  keywords: ["annexe"]
  fileNamePatterns: ['annexe.*\.pdf']
  priority: 0
  scoreBonus: 10
`))
		require.NoError(t, err)
		m := match.NewMatcher(table)

		got, err := m.FindBestMatch([]docscout.CandidateLink{{FileName: "other.pdf"}}, "Annexe")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{
			{URL: "https://example.com/1.pdf", FileName: "rapport-annuel-2023.pdf", Text: "Rapport annuel"},
			{URL: "https://example.com/2.pdf", FileName: "rapport-annuel-2022.pdf", Text: "Rapport annuel"},
		}

		first, err := m.FindBestMatch(candidates, "Rapport Annuel")
		require.NoError(t, err)
		for range 10 {
			again, err := m.FindBestMatch(candidates, "Rapport Annuel")
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		m := match.NewMatcher(nil)
		candidates := []docscout.CandidateLink{{FileName: "statuts-2024.pdf"}, {FileName: "prospectus.pdf"}}

		var wg sync.WaitGroup
		for _, label := range m.DocumentTypes() {
			wg.Add(1)
			go func(label string) {
				defer wg.Done()
				_, err := m.FindBestMatch(candidates, label)
				assert.NoError(t, err)
			}(label)
		}
		wg.Wait()
	})
}

func TestPattern_Score(t *testing.T) {
	t.Parallel()

	t.Run("each additional keyword adds exactly 8", func(t *testing.T) {
		t.Parallel()

		p, ok := match.DefaultTable().Lookup("Statuts")
		require.True(t, ok)

		base := docscout.CandidateLink{FileName: "doc.pdf"}
		withKeyword := docscout.CandidateLink{FileName: "doc.pdf", Context: "articles"}

		assert.Equal(t, 9, p.Score(base))
		assert.Equal(t, p.Score(base)+match.KeywordScore, p.Score(withKeyword))
	})

	t.Run("adding a keyword to one candidate leaves others unchanged", func(t *testing.T) {
		t.Parallel()

		p, ok := match.DefaultTable().Lookup("Rapport Annuel")
		require.True(t, ok)

		other := docscout.CandidateLink{FileName: "rapport-2023.pdf"}
		before := p.Score(other)

		m := match.NewMatcher(nil)
		_, err := m.FindBestMatch([]docscout.CandidateLink{other, {FileName: "x.pdf", Context: "yearly"}}, "Rapport Annuel")
		require.NoError(t, err)

		assert.Equal(t, before, p.Score(other))
	})

	t.Run("searches title and context case-insensitively", func(t *testing.T) {
		t.Parallel()

		p, ok := match.DefaultTable().Lookup("Prospectus")
		require.True(t, ok)

		plain := p.Score(docscout.CandidateLink{FileName: "doc.pdf"})
		titled := p.Score(docscout.CandidateLink{FileName: "doc.pdf", Title: "OFFERING Memorandum"})

		// keywords offering, memorandum and link text offering memorandum.
		assert.Equal(t, plain+2*match.KeywordScore+match.LinkTextScore, titled)
	})
}
