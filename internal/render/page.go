package render

import "html/template"

// trackedPage fires an analytics event, then replaces the location.
// Values in <script> are emitted by html/template as JSON string literals,
// so header-derived text cannot close the script element.
var trackedPage = template.Must(template.New("tracked").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="robots" content="noindex">
<title>Redirecting to {{.Destination}}</title>
<script async src="https://www.googletagmanager.com/gtag/js?id={{.AnalyticsID}}"></script>
<script>
window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', {{.AnalyticsID}});
var destination = {{.Destination}};
var navigated = false;
function go() {
  if (navigated) { return; }
  navigated = true;
  window.location.replace(destination);
}
gtag('event', 'redirect', {
  'user_id': {{.Client}},
  'from_path': {{.From}},
  'destination': destination,
  'event_callback': go,
  'event_timeout': {{.TimeoutMillis}}
});
setTimeout(go, {{.FallbackMillis}});
</script>
</head>
<body>
<noscript><p>Continue to <a href="{{.Destination}}">{{.Destination}}</a></p></noscript>
</body>
</html>
`))

type trackedPageData struct {
	AnalyticsID    string
	Destination    string
	Client         string
	From           string
	TimeoutMillis  int
	FallbackMillis int
}

const notFoundBody = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Not Found</title></head>
<body><h1>Not Found</h1></body>
</html>
`
