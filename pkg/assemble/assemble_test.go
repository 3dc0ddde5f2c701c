package assemble

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocat/catalog-extractor/models"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	return New(models.DefaultConfig(), nil)
}

const cardDoc = `<html><body>
<div class="dataset-card">
  <h3>Landsat 8 Collection 2 Tier 1</h3>
  <a href="/earth-engine/datasets/catalog/LANDSAT_LC08_C02_T1_L2">view</a>
  <p class="description">Atmospherically corrected surface reflectance from the OLI/TIRS sensors, 30 m resolution, 2013 to present. Provided by USGS.</p>
  <img src="/thumbs/landsat8.png">
  <span class="chip">landsat</span><span class="chip">sr</span>
</div>
<div class="dataset-card">
  <h3>Sentinel-2 MSI Level-2A</h3>
  <a href="/earth-engine/datasets/catalog/COPERNICUS_S2_SR">view</a>
  <p class="description">Multispectral imagery at 10 m resolution with bands B2, B3, B4 and B8. ESA Copernicus programme, 2017-present, global coverage.</p>
</div>
</body></html>`

func TestContainersFirstPass(t *testing.T) {
	a := newAssembler(t)
	containers, fallback := a.Containers(parseDoc(t, cardDoc))
	if fallback {
		t.Fatal("fallback engaged on a document with card containers")
	}
	if len(containers) != 2 {
		t.Fatalf("got %d containers, want 2", len(containers))
	}
}

func TestContainersFallbackAnchors(t *testing.T) {
	// No class hints at all, only catalog-path anchors.
	html := `<html><body>
	<ul>
	  <li><a href="/earth-engine/datasets/catalog/MODIS_006_MOD13Q1">MODIS Terra Vegetation Indices</a></li>
	  <li><a href="/earth-engine/datasets/catalog/NASA_SRTM_V3">SRTM Digital Elevation</a></li>
	  <li><a href="/unrelated/page">other link</a></li>
	</ul>
	</body></html>`

	a := newAssembler(t)
	containers, fallback := a.Containers(parseDoc(t, html))
	if !fallback {
		t.Fatal("fallback did not engage on markup without container hints")
	}
	if len(containers) != 2 {
		t.Fatalf("got %d fallback containers, want 2 (one per catalog anchor)", len(containers))
	}

	for _, sel := range containers {
		item, ok := a.Build(sel)
		if !ok {
			t.Fatal("fallback container did not yield a record")
		}
		if item.Record.Title == "" || item.Record.URL == "" {
			t.Errorf("degraded-mode record incomplete: %+v", item.Record)
		}
	}
}

func TestContainersTableRows(t *testing.T) {
	html := `<html><body><table>
	<tr><td><a href="/earth-engine/datasets/catalog/NOAA_GOES_16">GOES-16</a></td><td>full disk</td></tr>
	<tr><td><a href="/earth-engine/datasets/catalog/NOAA_GOES_17">GOES-17</a></td><td>full disk</td></tr>
	<tr><td>no link here</td></tr>
	</table></body></html>`

	a := newAssembler(t)
	containers, fallback := a.Containers(parseDoc(t, html))
	if fallback {
		t.Fatal("fallback engaged although table rows matched")
	}
	if len(containers) != 2 {
		t.Fatalf("got %d containers, want 2 table rows", len(containers))
	}
}

func TestBuildPopulatesRecord(t *testing.T) {
	a := newAssembler(t)
	containers, _ := a.Containers(parseDoc(t, cardDoc))

	item, ok := a.Build(containers[0])
	if !ok {
		t.Fatal("Build returned no record for a complete card")
	}
	rec := item.Record

	if rec.Title != "Landsat 8 Collection 2 Tier 1" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.DatasetID != "landsat_lc08_c02_t1_l2" {
		t.Errorf("DatasetID = %q", rec.DatasetID)
	}
	if !strings.HasPrefix(rec.URL, "https://developers.google.com/") {
		t.Errorf("URL not resolved absolute: %q", rec.URL)
	}
	if rec.Description == "" {
		t.Error("Description empty")
	}
	if rec.Provider != "USGS" {
		t.Errorf("Provider = %q, want USGS", rec.Provider)
	}
	if rec.Resolution != "30 m" {
		t.Errorf("Resolution = %q, want 30 m", rec.Resolution)
	}
	if rec.TemporalCoverage == nil || rec.TemporalCoverage.Start != "2013" || rec.TemporalCoverage.End != "present" {
		t.Errorf("TemporalCoverage = %+v", rec.TemporalCoverage)
	}
	if len(rec.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 chips", rec.Tags)
	}
	if rec.ThumbnailURL == "" {
		t.Error("ThumbnailURL empty")
	}
	if rec.ConfidenceScore <= 0 || rec.ConfidenceScore > 100 {
		t.Errorf("ConfidenceScore = %v, outside (0,100]", rec.ConfidenceScore)
	}
	if rec.DataCompleteness <= 0 || rec.DataCompleteness > 100 {
		t.Errorf("DataCompleteness = %v, outside (0,100]", rec.DataCompleteness)
	}
}

func TestBuildBands(t *testing.T) {
	a := newAssembler(t)
	containers, _ := a.Containers(parseDoc(t, cardDoc))

	item, ok := a.Build(containers[1])
	if !ok {
		t.Fatal("Build failed for sentinel card")
	}
	want := []string{"B2", "B3", "B4", "B8"}
	if len(item.Record.Bands) != len(want) {
		t.Fatalf("Bands = %v, want %v", item.Record.Bands, want)
	}
	for i, b := range want {
		if item.Record.Bands[i] != b {
			t.Errorf("Bands[%d] = %q, want %q", i, item.Record.Bands[i], b)
		}
	}
}

func TestBuildRejectsTitlelessFragment(t *testing.T) {
	html := `<html><body><div class="dataset-card"><img src="/x.png"></div></body></html>`
	a := newAssembler(t)
	doc := parseDoc(t, html)

	sel := doc.Find(".dataset-card")
	if _, ok := a.Build(sel); ok {
		t.Error("Build accepted a fragment with no title signal")
	}
}

func TestFinalizeMergesComplementaryDuplicates(t *testing.T) {
	// Container A: title + url only. Container B: same derived id, adds
	// description and tags. Expect one merged record holding all four.
	html := `<html><body>
	<div class="dataset-card">
	  <h3>MODIS Burned Area</h3>
	  <a href="/earth-engine/datasets/catalog/MODIS_061_MCD64A1">view</a>
	</div>
	<div class="dataset-card">
	  <h3>MODIS Burned Area</h3>
	  <a href="/earth-engine/datasets/catalog/MODIS_061_MCD64A1">view</a>
	  <p class="description">Monthly global burned area product derived from MODIS surface reflectance.</p>
	  <span class="tag">fire</span>
	</div>
	</body></html>`

	a := newAssembler(t)
	doc := parseDoc(t, html)
	containers, _ := a.Containers(doc)
	if len(containers) != 2 {
		t.Fatalf("got %d containers, want 2", len(containers))
	}

	var items []Item
	var maxPreMerge float64
	for _, sel := range containers {
		item, ok := a.Build(sel)
		if !ok {
			t.Fatal("Build failed")
		}
		if item.Record.ConfidenceScore > maxPreMerge {
			maxPreMerge = item.Record.ConfidenceScore
		}
		items = append(items, item)
	}

	records := a.Finalize(items)
	if len(records) != 1 {
		t.Fatalf("got %d records after dedupe, want 1", len(records))
	}
	rec := records[0]
	if rec.Title == "" || rec.URL == "" || rec.Description == "" || len(rec.Tags) == 0 {
		t.Errorf("merged record missing fields: %+v", rec)
	}
	if rec.ConfidenceScore < maxPreMerge {
		t.Errorf("merged confidence %v below pre-merge max %v", rec.ConfidenceScore, maxPreMerge)
	}
}

func TestFinalizePreservesOrder(t *testing.T) {
	a := newAssembler(t)
	items := []Item{
		{Record: models.DatasetRecord{Title: "B Dataset"}},
		{Record: models.DatasetRecord{Title: "A Dataset"}},
		{Record: models.DatasetRecord{Title: "C Dataset"}},
	}
	records := a.Finalize(items)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	want := []string{"B Dataset", "A Dataset", "C Dataset"}
	for i, w := range want {
		if records[i].Title != w {
			t.Errorf("records[%d].Title = %q, want %q (first-seen order)", i, records[i].Title, w)
		}
	}
}
