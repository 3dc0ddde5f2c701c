package help

const ColdstartYAML = `# catx Quick Start

output_formats:
  json: "Indented run document (default)"
  yaml: "Same document as YAML"
  sqlite: "Run history database, queryable with 'catx runs'"

commands:
  basic_extract: |
    catx extract --input catalog.html

  yaml_output: |
    catx extract --input catalog.html --format yaml --output run.yaml

  sqlite_history: |
    catx extract --input catalog.html --format sqlite --db catalog.db

  high_confidence_only: |
    catx extract --input catalog.html --min-confidence 70

  with_language_detection: |
    catx extract --input catalog.html --detect-language

  list_runs: |
    catx runs list --db catalog.db

  run_details: |
    catx runs show <run_id> --db catalog.db

  show_taxonomy: |
    catx taxonomy

scoring:
  confidence: "0-100; populated fields, corroboration, title quality, canonical URL"
  completeness: "0-100; weighted field coverage (title and URL count double)"
  tiers: "high >= 70, medium 50-69, low < 50"

classification:
  - "Taxonomy is ordered; the first matching category is the primary label"
  - "Mission families (landsat, sentinel, modis, ...) outrank thematic buckets"
  - "Records matching nothing file under 'other'"
  - "Override the taxonomy with --config config.yaml"

run_flags:
  zero_yield: "Document parsed but no datasets found (check the page structure)"
  partial: "Run was cancelled; assembled records are still scored and classified"
`
