// internal/handlers/system/system_handler.go
package system

import (
	"html/template"
	"net/http"
	"strings"

	"wecamp-service/internal/pkg/response"
	"wecamp-service/internal/service/health"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves health probes, robots.txt and the fallback 404.
type SystemHandler struct {
	health      *health.HealthService
	frontendURL string
}

func NewSystemHandler(healthService *health.HealthService, frontendURL string) *SystemHandler {
	return &SystemHandler{health: healthService, frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (h *SystemHandler) Health(c *gin.Context) {
	report := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
		c.Header("Retry-After", "30")
	}
	c.JSON(status, report)
}

func (h *SystemHandler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /uploads/\n")
	if h.frontendURL != "" {
		b.WriteString("\nSitemap: " + h.frontendURL + "/sitemap.xml\n")
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.String(http.StatusOK, b.String())
}

type notFoundPage struct {
	Lang    string
	Title   string
	Heading string
	Body    string
	Home    string
	HomeURL string
}

var notFoundPages = map[string]notFoundPage{
	"ko": {
		Lang:    "ko",
		Title:   "페이지를 찾을 수 없습니다 | WeCamp",
		Heading: "페이지를 찾을 수 없습니다",
		Body:    "요청하신 페이지가 존재하지 않거나 이동되었습니다.",
		Home:    "홈으로 돌아가기",
	},
	"en": {
		Lang:    "en",
		Title:   "Page not found | WeCamp",
		Heading: "Page not found",
		Body:    "The page you requested does not exist or has moved.",
		Home:    "Back to home",
	},
}

var notFoundTmpl = template.Must(template.New("404").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.Title}}</title>
</head>
<body>
<main>
<h1>404</h1>
<h2>{{.Heading}}</h2>
<p>{{.Body}}</p>
<a href="{{.HomeURL}}">{{.Home}}</a>
</main>
</body>
</html>
`))

// NotFound answers API paths with the JSON envelope and browser navigations
// with a localized page.
func (h *SystemHandler) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	wantsHTML := strings.Contains(c.GetHeader("Accept"), "text/html")
	if strings.HasPrefix(path, "/api/") || path == "/api" || !wantsHTML {
		response.NotFound(c, "Route not found: "+c.Request.Method+" "+path)
		return
	}

	page := notFoundPages["en"]
	if strings.HasPrefix(strings.ToLower(c.GetHeader("Accept-Language")), "ko") {
		page = notFoundPages["ko"]
	}
	page.HomeURL = h.frontendURL + "/"

	c.Status(http.StatusNotFound)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = notFoundTmpl.Execute(c.Writer, page)
}
