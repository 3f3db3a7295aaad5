package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the content API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
// One list/get/preview path triple is emitted per collection.
func RegisterSwagger(rg *gin.Engine, collections []string) {
	doc := openAPIDoc(collections)

	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>contentd - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

type obj = map[string]interface{}

func response(desc string) obj { return obj{"description": desc} }

func stringParam(name, in string, required bool, desc string) obj {
	return obj{"name": name, "in": in, "required": required, "description": desc, "schema": obj{"type": "string"}}
}

var documentSchema = obj{
	"type": "object",
	"properties": obj{
		"slug":    obj{"type": "string"},
		"title":   obj{"type": "string"},
		"date":    obj{"type": "string"},
		"author":  obj{"type": "string"},
		"tags":    obj{"type": "array", "items": obj{"type": "string"}},
		"content": obj{"type": "string", "description": "rendered HTML"},
	},
	"additionalProperties": obj{"type": "string"},
}

func openAPIDoc(collections []string) []byte {
	paths := obj{
		"/health": obj{"get": obj{"summary": "Liveness check", "responses": obj{"200": response("healthy")}}},
		"/ready":  obj{"get": obj{"summary": "Readiness check", "responses": obj{"200": response("ready"), "503": response("not ready")}}},
	}
	slug := stringParam("slug", "path", true, "file name without extension")
	for _, name := range collections {
		base := "/api/" + name
		paths[base] = obj{"get": obj{
			"summary":    "List " + name,
			"parameters": []obj{stringParam("tag", "query", false, "tag substring filter"), stringParam("title", "query", false, "title substring filter")},
			"responses": obj{
				"200": obj{"description": "documents in directory order", "content": obj{"application/json": obj{"schema": obj{"type": "array", "items": documentSchema}}}},
				"500": response("malformed document or storage failure"),
			},
		}}
		paths[base+"/{slug}"] = obj{"get": obj{
			"summary":    "Get one document from " + name,
			"parameters": []obj{slug},
			"responses": obj{
				"200": obj{"description": "document", "content": obj{"application/json": obj{"schema": documentSchema}}},
				"404": response("document not found"),
				"500": response("malformed document or storage failure"),
			},
		}}
		paths[base+"/{slug}/preview"] = obj{"get": obj{
			"summary": "Sentence-bounded plain-text excerpt",
			"parameters": []obj{slug, {
				"name": "words", "in": "query", "required": false, "schema": obj{"type": "integer", "minimum": 1},
			}},
			"responses": obj{"200": response("preview"), "400": response("invalid words"), "404": response("document not found")},
		}}
	}

	b, err := json.Marshal(obj{
		"openapi": "3.0.0",
		"info":    obj{"title": "contentd", "version": "v0.1.0"},
		"paths":   paths,
	})
	if err != nil {
		// every value above is a plain map, slice or string
		panic(err)
	}
	return b
}
