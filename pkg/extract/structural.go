package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/normalize"
)

// Structural extractors read tag/attribute conventions: headings, hrefs,
// image srcs. They carry higher raw confidence than pattern extractors
// because the markup author put the value where it belongs.

func titleFromHeading(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	heading := sel.Find("h1,h2,h3,h4,h5,h6").First()
	if heading.Length() == 0 {
		return nil
	}
	text := normalize.Text(heading.Text())
	if text == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldTitle,
		Value:      text,
		Source:     models.SourceStructural,
		Confidence: 0.9,
	}
}

// titleFromAnchorText is the degraded-mode title source: the text of the
// catalog link itself. Competes with the heading extractor and loses unless
// the container has no heading.
func titleFromAnchorText(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	anchor := catalogAnchor(sel, cfg)
	if anchor == nil {
		return nil
	}
	text := normalize.Text(anchor.Text())
	if text == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldTitle,
		Value:      text,
		Source:     models.SourcePattern,
		Confidence: 0.5,
	}
}

func urlFromAnchor(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	anchor := catalogAnchor(sel, cfg)
	confidence := 0.9
	if anchor == nil {
		// No catalog link; fall back to the first anchor at all.
		first := sel.Find("a[href]").First()
		if first.Length() == 0 {
			return nil
		}
		anchor = first
		confidence = 0.5
	}
	href, _ := anchor.Attr("href")
	href = absoluteURL(href, cfg.BaseURL)
	if href == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldURL,
		Value:      href,
		Source:     models.SourceStructural,
		Confidence: confidence,
	}
}

// datasetIDFromURL derives the identity token from the path segment after
// the catalog marker, e.g. .../datasets/catalog/LANDSAT_LC08_C02_T1_L2.
func datasetIDFromURL(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	anchor := catalogAnchor(sel, cfg)
	if anchor == nil {
		return nil
	}
	href, _ := anchor.Attr("href")
	id := idFromCatalogPath(href, cfg.CatalogPathMarker)
	if id == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldDatasetID,
		Value:      id,
		Source:     models.SourceStructural,
		Confidence: 0.9,
	}
}

func thumbnailFromImage(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	img := sel.Find("img[src]").First()
	if img.Length() == 0 {
		return nil
	}
	src, _ := img.Attr("src")
	src = absoluteURL(strings.TrimSpace(src), cfg.BaseURL)
	if src == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldThumbnail,
		Value:      src,
		Source:     models.SourceStructural,
		Confidence: 0.9,
	}
}

func codeFromPre(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	code := sel.Find("pre,code").First()
	if code.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(code.Text())
	if text == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldCodeSnippet,
		Value:      text,
		Source:     models.SourceStructural,
		Confidence: 0.8,
	}
}

func descriptionFromParagraph(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	var text string
	// Prefer an element that announces itself as a description.
	labeled := sel.Find(`[class*="description"],[class*="summary"]`).First()
	if labeled.Length() > 0 {
		text = normalize.Text(labeled.Text())
	}
	if text == "" {
		sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			candidate := normalize.Text(p.Text())
			if len(candidate) >= minDescriptionLen {
				text = candidate
				return false
			}
			return true
		})
	}
	if text == "" {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldDescription,
		Value:      text,
		Source:     models.SourceStructural,
		Confidence: 0.7,
	}
}

// chipClasses marks elements styled as tag chips in the catalog listing.
var chipClasses = []string{"chip", "tag", "badge", "label"}

func tagsFromChips(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	var tags []string
	seen := make(map[string]struct{})
	add := func(s *goquery.Selection) {
		text := normalize.Text(s.Text())
		if text == "" {
			return
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		tags = append(tags, text)
	}

	for _, class := range chipClasses {
		sel.Find(`[class*="` + class + `"]`).Each(func(_ int, s *goquery.Selection) { add(s) })
	}
	// Tag-link path convention: anchors under /tags/.
	sel.Find(`a[href*="/tags/"]`).Each(func(_ int, s *goquery.Selection) { add(s) })

	if len(tags) == 0 {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldTags,
		Value:      strings.Join(tags, listSeparator),
		Source:     models.SourceStructural,
		Confidence: 0.8,
	}
}

// catalogAnchor returns the first anchor whose href contains the catalog
// path marker, or nil. When the container itself is an anchor (degraded
// discovery mode), the container is inspected too.
func catalogAnchor(sel *goquery.Selection, cfg *models.ExtractionConfig) *goquery.Selection {
	if href, ok := sel.Attr("href"); ok && strings.Contains(href, cfg.CatalogPathMarker) {
		return sel
	}
	var found *goquery.Selection
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, cfg.CatalogPathMarker) {
			found = a
			return false
		}
		return true
	})
	return found
}

// absoluteURL resolves href against base when href is host-relative.
func absoluteURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// idFromCatalogPath pulls the segment following the marker out of href.
func idFromCatalogPath(href, marker string) string {
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.Trim(href[idx+len(marker):], "/")
	if rest == "" {
		return ""
	}
	// Drop anything after the segment: query, fragment, sub-paths.
	for _, stop := range []string{"/", "?", "#"} {
		if cut := strings.Index(rest, stop); cut >= 0 {
			rest = rest[:cut]
		}
	}
	return models.NormalizeID(rest)
}
