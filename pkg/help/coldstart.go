package help

const ColdstartYAML = `# wiki-page-summary Quick Start

inputs:
  pages_dir: "Page sorting output: one part-* file of page details, ascending id"
  depths_dir: "Page depth output: one part-* file of depth records, ascending id, may be sparse"

outputs:
  page.csv: "id,type,title,depth for every page"
  articleParents.csv: "article id, parent category ids"
  categoryParents.csv: "category id, parent category ids"
  childArticles.csv: "category id, child article ids"
  childCategories.csv: "category id, child category ids"
  pageLinkIn.csv: "article id, inbound links with sentence indexes"
  pageLinkOut.csv: "article id, outbound links with sentence indexes"
  redirectSourcesByTarget.csv: "article id, ids of pages redirecting to it"
  redirectTargetsBySource.csv: "redirect id,target id"
  sentenceSplits.csv: "article id, sentence offsets"
  pageLabel.csv: "article id, labels ranked by frequency"
  _finished.yaml: "completion marker with the run manifest"

page_types:
  0: article
  1: category
  2: redirect
  4: template
  5: invalid

commands:
  summarize: |
    wps summarize --pages-dir out/pageSorting --depths-dir out/pageDepth --output-dir out/finalSummary

  rerun: |
    wps summarize --output-dir out/finalSummary --force ...

  status: |
    wps status --output-dir out/finalSummary --format yaml

  load_database: |
    wps load --output-dir out/finalSummary --db graph.db

  show_page: |
    wps show --db graph.db 12

  fixtures: |
    wps pack --kind detail --in pages.yaml --out fixtures/pageSorting

config:
  file: "--config wps.yaml with pages_dir, depths_dir, output_dir, metrics_file, db_path"
  env: "WPS_PAGES_DIR, WPS_DEPTHS_DIR, WPS_OUTPUT_DIR, WPS_METRICS_FILE, WPS_DB, WPS_CONFIG"
`
