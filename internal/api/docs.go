package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Interactive documentation pages. Both UIs render the OpenAPI document
// served at /api/v1/openapi.json.

const docsHTML = `<!DOCTYPE html>
<html>
<head>
  <title>TTS Service API - Swagger UI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "/api/v1/openapi.json",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const redocHTML = `<!DOCTYPE html>
<html>
<head>
  <title>TTS Service API - ReDoc</title>
  <meta charset="utf-8">
</head>
<body>
  <redoc spec-url="/api/v1/openapi.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

const openAPIJSON = `{
  "openapi": "3.0.3",
  "info": {
    "title": "TTS Service API",
    "summary": "Text-to-Speech Service API with authentication",
    "version": "1.0.0"
  },
  "components": {
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
      "apiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    }
  },
  "paths": {
    "/api/v1/auth/register": {
      "post": {
        "tags": ["auth"],
        "summary": "Register a new user",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "User created"},
          "400": {"description": "Email already registered or invalid payload"}
        }
      }
    },
    "/api/v1/auth/login/access-token": {
      "post": {
        "tags": ["auth"],
        "summary": "Obtain a bearer token",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username", "password"],
                "properties": {
                  "username": {"type": "string", "description": "User email"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Access token",
            "content": {
              "application/json": {
                "schema": {
                  "type": "object",
                  "properties": {
                    "access_token": {"type": "string"},
                    "token_type": {"type": "string"}
                  }
                }
              }
            }
          },
          "401": {"description": "Incorrect email or password"}
        }
      }
    },
    "/api/v1/api-keys": {
      "post": {
        "tags": ["api-keys"],
        "summary": "Create an API key (raw key shown once)",
        "security": [{"bearerAuth": []}],
        "responses": {"201": {"description": "API key created"}, "401": {"description": "Not authenticated"}}
      },
      "get": {
        "tags": ["api-keys"],
        "summary": "List own API keys",
        "security": [{"bearerAuth": []}],
        "responses": {"200": {"description": "API keys"}, "401": {"description": "Not authenticated"}}
      }
    },
    "/api/v1/api-keys/{id}": {
      "delete": {
        "tags": ["api-keys"],
        "summary": "Delete an API key",
        "security": [{"bearerAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
        "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
      }
    },
    "/api/v1/voices": {
      "post": {
        "tags": ["voices"],
        "summary": "Upload a voice sample (multipart WAV)",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "responses": {"201": {"description": "Voice created, processing pending"}}
      },
      "get": {
        "tags": ["voices"],
        "summary": "List own voices",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "responses": {"200": {"description": "Voices"}}
      }
    },
    "/api/v1/voices/{id}": {
      "get": {
        "tags": ["voices"],
        "summary": "Voice details",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
        "responses": {"200": {"description": "Voice"}, "404": {"description": "Not found"}}
      },
      "delete": {
        "tags": ["voices"],
        "summary": "Delete a voice",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
        "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
      }
    },
    "/api/v1/tts/generate_speech": {
      "post": {
        "tags": ["tts"],
        "summary": "Generate speech from text",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["text"],
                "properties": {
                  "text": {"type": "string"},
                  "voice_id": {"type": "integer"},
                  "stream": {"type": "boolean"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Audio URL and duration, or streamed WAV"},
          "401": {"description": "Not authenticated"},
          "502": {"description": "Synthesis backend failure"}
        }
      }
    },
    "/api/v1/tts/download/{filename}": {
      "get": {
        "tags": ["tts"],
        "summary": "Download generated audio",
        "security": [{"bearerAuth": []}, {"apiKeyAuth": []}],
        "parameters": [{"name": "filename", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "WAV file"}, "404": {"description": "Not found"}}
      }
    },
    "/health": {
      "get": {
        "tags": ["meta"],
        "summary": "Service health",
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func Docs(c echo.Context) error {
	return c.HTML(http.StatusOK, docsHTML)
}

func ReDoc(c echo.Context) error {
	return c.HTML(http.StatusOK, redocHTML)
}

func OpenAPI(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, []byte(openAPIJSON))
}
