package site

// datasetPageTemplate is the Go html/template for each rendered
// dataset page. The page_metadata script mirrors what the interactive
// viewer writes after a load, so crawlers see the same thing either
// way.
const datasetPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — {{.CatalogTitle}}</title>
  <link rel="stylesheet" href="../catalog.css">
</head>
<body>
  <main>
    <h1>{{.Title}}</h1>
    <p class="ds-path"><code>{{.Path}}</code></p>
    <div class="ds-description">{{.Description}}</div>
    <section class="ds-record">{{.RecordHTML}}</section>
  </main>
  <script id="page_metadata" type="application/ld+json">{{.PageMetadata}}</script>
</body>
</html>
`
