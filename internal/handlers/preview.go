package handlers

import (
	"net/http"

	"localwire/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

// PreviewPost handles GET /api/admin/posts/:id/preview, rendering the draft's
// markdown body as a styled HTML page for editorial review.
func (h *AdminHandler) PreviewPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.publisher.GetPost(id)
	if err != nil {
		respondError(c, err)
		return
	}

	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	htmlContent := blackfriday.Run([]byte(post.Body), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))

	banner := ""
	if services.Readiness(post) == services.NeedsMedia {
		banner = `<div class="banner">⚠️ Needs media — this draft cannot publish until a featured image is attached.</div>`
	}

	html := wrapPreview(string(htmlContent), post.Title, post.FeaturedImageURL, banner)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}

// wrapPreview wraps the rendered body with consistent styling
func wrapPreview(content, title, imageURL, banner string) string {
	hero := ""
	if imageURL != "" {
		hero = `<img class="hero" src="` + imageURL + `" alt="">`
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + ` - Localwire Preview</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f8f9fa;
            padding: 20px;
        }

        .container {
            max-width: 800px;
            margin: 0 auto;
        }

        .banner {
            background: #fef3c7;
            border: 1px solid #f59e0b;
            border-radius: 8px;
            padding: 1rem;
            margin-bottom: 1.5rem;
            color: #92400e;
        }

        .hero {
            width: 100%;
            border-radius: 12px;
            margin-bottom: 1.5rem;
        }

        .content {
            background: white;
            padding: 3rem;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            border: 1px solid #e5e7eb;
        }

        .content h1, .content h2, .content h3 {
            color: #1f2937;
            margin-top: 2rem;
            margin-bottom: 1rem;
            font-weight: 600;
        }

        .content p {
            margin-bottom: 1rem;
            color: #374151;
        }

        .content ul, .content ol {
            margin-bottom: 1rem;
            padding-left: 2rem;
        }

        .content blockquote {
            border-left: 4px solid #2563eb;
            padding-left: 1rem;
            margin: 1.5rem 0;
            color: #6b7280;
            font-style: italic;
        }

        .content a {
            color: #2563eb;
            text-decoration: none;
        }

        .content a:hover {
            text-decoration: underline;
        }

        .content img {
            max-width: 100%;
            height: auto;
            border-radius: 8px;
            margin: 1rem 0;
        }
    </style>
</head>
<body>
    <div class="container">
        ` + banner + `
        ` + hero + `
        <div class="content">
            <h1>` + title + `</h1>
            ` + content + `
        </div>
    </div>
</body>
</html>`
}
