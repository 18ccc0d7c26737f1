package render

import "html/template"

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} barcodes</title>
<style>
  body { font-family: sans-serif; margin: 0; }
  .BarcodeList { list-style: none; margin: 0; padding: 0; display: flex; flex-wrap: wrap; }
  .BarcodeList li { margin: 8px; page-break-inside: avoid; break-inside: avoid; }
  .label { text-align: center; font-weight: bold; }
  .code { text-align: center; font-family: monospace; letter-spacing: 2px; }
  @media print { @page { margin: 10mm; } }
</style>
</head>
<body>
<ul class="BarcodeList">
{{- range .Items}}
  <li>
    <div class="label">{{.Label}}</div>
    <img src="{{.Image}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Code}}">
    <div class="code">{{.Code}}</div>
  </li>
{{- end}}
</ul>
</body>
</html>
`))
