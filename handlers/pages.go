// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import "html/template"

const pageHead = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{block "title" .}}Trip poll{{end}}</title>
</head>
<body>
`

const pageFoot = `</body>
</html>
`

var formPage = template.Must(template.New("form").Parse(pageHead + `
<h1>Trip to {{.Poll.Poll.Destination}}</h1>
{{with .Poll.Poll.DepartDate}}<p>{{.}} to {{$.Poll.Poll.ReturnDate}}</p>{{end}}
{{with .Message}}<p class="message">{{.}}</p>{{end}}
{{if eq .Poll.Poll.Status "active"}}
<form method="post" action="/poll/{{.Poll.Poll.ID}}">
  <label>Your email <input type="email" name="email" value="{{.Email}}" required></label>
  {{range .Poll.Questions}}
  <fieldset>
    <legend>{{.Text}}</legend>
    {{$name := printf "q_%s" .ID}}
    {{if eq .Type "single_choice"}}
      {{range .Options}}<label><input type="radio" name="{{$name}}" value="{{.}}" required> {{.}}</label><br>{{end}}
    {{else if eq .Type "multiple_choice"}}
      {{range .Options}}<label><input type="checkbox" name="{{$name}}" value="{{.}}"> {{.}}</label><br>{{end}}
    {{else}}
      <input type="text" name="{{$name}}" required>
    {{end}}
  </fieldset>
  {{end}}
  <button type="submit">Submit</button>
</form>
{{end}}
` + pageFoot))

var donePage = template.Must(template.New("done").Parse(pageHead + `
<h1>Trip to {{.Poll.Poll.Destination}}</h1>
<p>{{.Message}}</p>
<p>You can submit again to change your answers; your latest answers count.</p>
` + pageFoot))

var errorPage = template.Must(template.New("error").Parse(pageHead + `
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
` + pageFoot))
