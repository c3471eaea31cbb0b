package api

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-service/internal/entity"
	"tts-service/internal/service"
	"tts-service/internal/synth"
	"tts-service/internal/testutil"
)

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(_ context.Context, _ string, _ synth.Options) ([]byte, error) {
	return testWAV(22050), nil
}

// testWAV builds one second of 16-bit mono silence.
func testWAV(sampleRate int) []byte {
	dataLen := sampleRate * 2

	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2))
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	buf = append(buf, make([]byte, dataLen)...)

	return buf
}

// newTestServer wires the full route table against in-memory stores and a
// stub synthesis backend, mirroring cmd/main.go.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	t.Setenv("ENV", "test")

	users := testutil.NewMemUserStore()
	keys := testutil.NewMemAPIKeyStore()
	voices := testutil.NewMemVoiceStore()
	dir := t.TempDir()

	authService := service.NewAuthService(users, nil, "test-secret", time.Hour)
	keyService := service.NewAPIKeyService(keys, users)
	voiceService := service.NewVoiceService(voices, nil, nil, filepath.Join(dir, "uploads"), filepath.Join(dir, "cache"), 1<<20)
	ttsService := service.NewTTSService(voices, stubSynthesizer{}, nil, filepath.Join(dir, "output"))

	require.NoError(t, authService.EnsureSuperuser(context.Background(), "admin@example.com", "admin"))

	authHandler := NewAuthHandler(authService)
	keyHandler := NewAPIKeyHandler(keyService)
	voiceHandler := NewVoiceHandler(voiceService)
	ttsHandler := NewTTSHandler(ttsService)

	e := echo.New()
	e.POST("/api/v1/auth/register", authHandler.Register)
	e.POST("/api/v1/auth/login/access-token", authHandler.Login)
	e.GET("/docs", Docs)
	e.GET("/redoc", ReDoc)
	e.GET("/api/v1/openapi.json", OpenAPI)

	kg := e.Group("/api/v1/api-keys", JWTAuth(authService), ResolveJWTUser(authService))
	kg.POST("", keyHandler.Create)
	kg.GET("", keyHandler.List)
	kg.DELETE("/:id", keyHandler.Delete)

	userAuth := UserAuth(authService, keyService)

	vg := e.Group("/api/v1/voices", userAuth)
	vg.POST("", voiceHandler.Create)
	vg.GET("", voiceHandler.List)
	vg.GET("/:id", voiceHandler.Get)
	vg.DELETE("/:id", voiceHandler.Delete)

	tg := e.Group("/api/v1/tts", userAuth)
	tg.POST("/generate_speech", ttsHandler.GenerateSpeech)
	tg.GET("/download/:filename", ttsHandler.Download)

	return e
}

func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login/access-token", "", map[string]string{
		"username": email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "bearer", body["token_type"])
	require.NotEmpty(t, body["access_token"])
	return body["access_token"]
}

func TestRegisterThenLogin(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsSuperuser)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	// duplicate email
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	login(t, e, "alice@example.com", "s3cret")
}

func TestLoginBadCredentials(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login/access-token", "", map[string]string{
		"username": "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestSeededSuperuserLogin(t *testing.T) {
	e := newTestServer(t)
	login(t, e, "admin@example.com", "admin")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/api/v1/api-keys", "/api/v1/voices"} {
		rec := doJSON(e, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/tts/generate_speech", "", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage token is rejected too
	rec = doJSON(e, http.MethodGet, "/api/v1/api-keys", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesWithToken(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	rec := doJSON(e, http.MethodGet, "/api/v1/api-keys", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/v1/voices", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAPIKeyFlow(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/api-keys", token, map[string]string{"name": "ci"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID  int    `json:"id"`
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.Key, "sk_"))

	// the raw key authenticates against voices/tts routes
	req := httptest.NewRequest(http.MethodGet, "/api/v1/voices", nil)
	req.Header.Set("X-API-Key", created.Key)
	keyRec := httptest.NewRecorder()
	e.ServeHTTP(keyRec, req)
	assert.Equal(t, http.StatusOK, keyRec.Code, keyRec.Body.String())

	// listing does not leak the raw key
	rec = doJSON(e, http.MethodGet, "/api/v1/api-keys", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), created.Key)

	rec = doJSON(e, http.MethodDelete, "/api/v1/api-keys/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDocsPublic(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/docs", "/redoc", "/api/v1/openapi.json"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGenerateSpeechAndDownload(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/tts/generate_speech", token, map[string]interface{}{
		"text": "hello world",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp entity.TTSResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello world", resp.Text)
	assert.InDelta(t, 1.0, resp.Duration, 0.001)
	require.True(t, strings.HasPrefix(resp.AudioURL, "/api/v1/tts/download/"))

	rec = doJSON(e, http.MethodGet, resp.AudioURL, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "speech.wav")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")))

	// unknown files and traversal attempts 404
	rec = doJSON(e, http.MethodGet, "/api/v1/tts/download/nope.wav", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateSpeechStream(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/tts/generate_speech", token, map[string]interface{}{
		"text":   "hello world",
		"stream": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "speech.wav")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")))
}

func TestVoiceUpload(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("name", "narrator")
	writer.WriteField("language", "en")
	writer.WriteField("sample_text", "the quick brown fox")

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="audio_file"; filename="sample.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	part.Write(testWAV(8000))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/voices", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var voice entity.Voice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &voice))
	assert.Equal(t, entity.VoiceStatusPending, voice.Status)

	rec = doJSON(e, http.MethodGet, "/api/v1/voices", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var voices []entity.Voice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &voices))
	assert.Len(t, voices, 1)
}

func TestVoiceUploadWrongType(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin@example.com", "admin")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("name", "narrator")
	writer.WriteField("language", "en")
	writer.WriteField("sample_text", "text")

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="audio_file"; filename="sample.mp3"`)
	header.Set("Content-Type", "audio/mpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("mp3 bytes"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/voices", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
