package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lockedin/internal/handlers"
	"lockedin/internal/middleware"
	"lockedin/internal/models"
	"lockedin/internal/repositories"
	"lockedin/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// setupApp assembles the full application against a fresh in-memory SQLite
// database, mirroring the wiring in main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{}, &models.StudySession{}, &models.BlogPost{})
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	taskRepo := repositories.NewGORMTaskRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	authService := services.NewAuthService(userRepo, testJWTSecret)
	taskService := services.NewTaskService(taskRepo)
	sessionService := services.NewSessionService(sessionRepo, nil)
	postService := services.NewPostService(postRepo)
	leaderboardService := services.NewLeaderboardService(sessionRepo, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	authGuard := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(app, authGuard)
	handlers.NewTaskHandler(taskService).RegisterRoutes(app, authGuard)
	handlers.NewSessionHandler(sessionService).RegisterRoutes(app, authGuard)
	handlers.NewPostHandler(postService).RegisterRoutes(app, authGuard)
	handlers.NewLeaderboardHandler(leaderboardService).RegisterRoutes(app, authGuard)

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Route not found"})
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

func signUpAndIn(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/SignUp", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAccountLifecycle(t *testing.T) {
	app := setupApp(t)

	// Sign up alice.
	resp, body := doJSON(t, app, http.MethodPost, "/SignUp", "", fiber.Map{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User Information Added Successfully", body["message"])

	// Missing fields.
	resp, body = doJSON(t, app, http.MethodPost, "/SignUp", "", fiber.Map{
		"username": "bob", "email": "b@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["message"])

	// Duplicate email.
	resp, _ = doJSON(t, app, http.MethodPost, "/SignUp", "", fiber.Map{
		"username": "alice2", "email": "a@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password and unknown email both read the same.
	resp, body = doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email": "nobody@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])

	// Correct credentials issue a token usable for the profile page.
	resp, body = doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = doJSON(t, app, http.MethodGet, "/ProfilePage2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotNil(t, body["user_id"])
}

func TestUpdateAccount(t *testing.T) {
	app := setupApp(t)
	token := signUpAndIn(t, app, "alice", "a@x.com", "pw123")

	// Empty update body.
	resp, body := doJSON(t, app, http.MethodPatch, "/update-account", token, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No fields provided to update.", body["message"])

	// Change email and password; the response carries a refreshed token.
	resp, body = doJSON(t, app, http.MethodPatch, "/update-account", token, fiber.Map{
		"email": "alice@x.com", "password": "newpw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newToken, _ := body["newToken"].(string)
	require.NotEmpty(t, newToken)

	// The new token sees the updated identity.
	resp, body = doJSON(t, app, http.MethodGet, "/ProfilePage2", newToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@x.com", body["email"])

	// Old credentials stop working, new ones work.
	resp, _ = doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email": "a@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/SignIn", "", fiber.Map{
		"email": "alice@x.com", "password": "newpw",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthGuard(t *testing.T) {
	app := setupApp(t)

	// No header at all.
	resp, body := doJSON(t, app, http.MethodPost, "/tasks", "", fiber.Map{"text": "write notes"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", body["message"])

	// Present but invalid token.
	resp, body = doJSON(t, app, http.MethodGet, "/tasks", "garbage.token.here", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestTaskLifecycle(t *testing.T) {
	app := setupApp(t)
	token := signUpAndIn(t, app, "alice", "a@x.com", "pw123")

	// Empty text is rejected.
	resp, body := doJSON(t, app, http.MethodPost, "/tasks", token, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Task text is required", body["message"])

	// Create two tasks.
	resp, body = doJSON(t, app, http.MethodPost, "/tasks", token, fiber.Map{"text": "write notes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	firstID := int(body["id"].(float64))
	assert.Equal(t, false, body["completed"])

	resp, _ = doJSON(t, app, http.MethodPost, "/tasks", token, fiber.Map{"text": "review code"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, tasks := doJSONList(t, app, http.MethodGet, "/tasks", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, tasks, 2)

	// Completing the same task twice succeeds both times.
	for i := 0; i < 2; i++ {
		resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/tasks/complete/%d", firstID), token, fiber.Map{"completed": true})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	_, tasks = doJSONList(t, app, http.MethodGet, "/tasks", token)
	for _, task := range tasks {
		if int(task["id"].(float64)) == firstID {
			assert.Equal(t, true, task["completed"])
		}
	}

	// Soft delete hides the task from the active listing and shows it in
	// the archive.
	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/tasks/%d", firstID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task flagged successfully", body["message"])

	_, tasks = doJSONList(t, app, http.MethodGet, "/tasks", token)
	assert.Len(t, tasks, 1)
	for _, task := range tasks {
		assert.NotEqual(t, firstID, int(task["id"].(float64)))
	}

	_, archived := doJSONList(t, app, http.MethodGet, "/archived-tasks", token)
	require.Len(t, archived, 1)
	assert.Equal(t, firstID, int(archived[0]["id"].(float64)))

	// Unarchive writes the provided boolean back.
	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/tasks/unarchive/%d", firstID), token, fiber.Map{"flagged": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, tasks = doJSONList(t, app, http.MethodGet, "/tasks", token)
	assert.Len(t, tasks, 2)
	_, archived = doJSONList(t, app, http.MethodGet, "/archived-tasks", token)
	assert.Len(t, archived, 0)
}

func TestTaskOwnershipScoping(t *testing.T) {
	app := setupApp(t)
	aliceToken := signUpAndIn(t, app, "alice", "a@x.com", "pw123")
	bobToken := signUpAndIn(t, app, "bob", "b@x.com", "pw456")

	resp, body := doJSON(t, app, http.MethodPost, "/tasks", aliceToken, fiber.Map{"text": "alice task"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := int(body["id"].(float64))

	// Bob cannot see or mutate alice's task; every attempt reads as
	// not-found, never forbidden.
	_, tasks := doJSONList(t, app, http.MethodGet, "/tasks", bobToken)
	assert.Len(t, tasks, 0)

	for _, attempt := range []struct {
		method, path string
		payload      any
	}{
		{http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), nil},
		{http.MethodPatch, fmt.Sprintf("/tasks/complete/%d", taskID), fiber.Map{"completed": true}},
		{http.MethodPatch, fmt.Sprintf("/tasks/unarchive/%d", taskID), fiber.Map{"flagged": false}},
	} {
		resp, body = doJSON(t, app, attempt.method, attempt.path, bobToken, attempt.payload)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", attempt.method, attempt.path)
		assert.Equal(t, "Task not found or not authorized", body["message"])
	}

	// Alice's task is untouched.
	_, tasks = doJSONList(t, app, http.MethodGet, "/tasks", aliceToken)
	require.Len(t, tasks, 1)
	assert.Equal(t, false, tasks[0]["completed"])
	assert.Equal(t, false, tasks[0]["flagged"])
}

func TestSessionRoundTrip(t *testing.T) {
	app := setupApp(t)
	token := signUpAndIn(t, app, "alice", "a@x.com", "pw123")

	// Missing duration.
	resp, body := doJSON(t, app, http.MethodPost, "/sessions", token, fiber.Map{"text": "study"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Study text and duration are required", body["message"])

	// Malformed duration string.
	resp, body = doJSON(t, app, http.MethodPost, "/sessions", token, fiber.Map{"text": "study", "duration": "ab:cd:ef"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid duration format", body["message"])

	// A clock string is normalized to seconds.
	resp, body = doJSON(t, app, http.MethodPost, "/sessions", token, fiber.Map{"text": "study", "duration": "01:02:03"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(3723), body["duration"])

	// Numeric seconds are stored as-is.
	resp, _ = doJSON(t, app, http.MethodPost, "/sessions", token, fiber.Map{"text": "sprint", "duration": 90})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The listing formats durations back to HH:MM:SS.
	resp, sessions := doJSONList(t, app, http.MethodGet, "/sessions", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sessions, 2)
	formatted := map[string]bool{}
	for _, sess := range sessions {
		formatted[sess["formatted_duration"].(string)] = true
		assert.NotEmpty(t, sess["date_added"])
	}
	assert.True(t, formatted["01:02:03"])
	assert.True(t, formatted["00:01:30"])
}

func TestLeaderboard(t *testing.T) {
	app := setupApp(t)
	aliceToken := signUpAndIn(t, app, "alice", "a@x.com", "pw123")
	bobToken := signUpAndIn(t, app, "bob", "b@x.com", "pw456")
	signUpAndIn(t, app, "carol", "c@x.com", "pw789")

	// Invalid timeframe.
	resp, body := doJSON(t, app, http.MethodGet, "/top-users?timeframe=bogus", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid timeframe parameter", body["message"])

	// Alice and bob each log one hour; carol logs nothing.
	resp, _ = doJSON(t, app, http.MethodPost, "/sessions", aliceToken, fiber.Map{"text": "study", "duration": 3600})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/sessions", bobToken, fiber.Map{"text": "study", "duration": 3600})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, timeframe := range []string{"this-month", "this-year", "today", "all-time", ""} {
		path := "/top-users"
		if timeframe != "" {
			path += "?timeframe=" + timeframe
		}
		resp, entries := doJSONList(t, app, http.MethodGet, path, aliceToken)
		require.Equal(t, http.StatusOK, resp.StatusCode, "timeframe %q", timeframe)
		require.Len(t, entries, 3, "timeframe %q", timeframe)

		// Both one-hour users rank above carol, who still appears with 0.
		assert.Equal(t, float64(1), entries[0]["total_hours"])
		assert.Equal(t, float64(1), entries[1]["total_hours"])
		assert.Equal(t, "carol", entries[2]["username"])
		assert.Equal(t, float64(0), entries[2]["total_hours"])
	}
}

func TestBlogLifecycle(t *testing.T) {
	app := setupApp(t)
	aliceToken := signUpAndIn(t, app, "alice", "a@x.com", "pw123")
	bobToken := signUpAndIn(t, app, "bob", "b@x.com", "pw456")

	// All three fields are required.
	resp, body := doJSON(t, app, http.MethodPost, "/blog", aliceToken, fiber.Map{"topic": "go", "title": "no text"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Topic, title and text are required", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/blog", aliceToken, fiber.Map{
		"topic": "go", "title": "testing fiber apps", "text": "use app.Test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := int(body["id"].(float64))

	// Any authenticated user can read it, by listing or by id.
	_, posts := doJSONList(t, app, http.MethodGet, "/blog-all", bobToken)
	require.Len(t, posts, 1)

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/post/%d", postID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "testing fiber apps", body["title"])

	// Search matches case-insensitively across fields.
	resp, posts = doJSONList(t, app, http.MethodGet, "/blog-search?q=FIBER", bobToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, posts, 1)
	resp, body = doJSON(t, app, http.MethodGet, "/blog-search", bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query is required", body["message"])

	// Only the owner can update, and a partial update leaves the other
	// fields unchanged.
	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/post/%d", postID), bobToken, fiber.Map{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/post/%d", postID), aliceToken, fiber.Map{"title": "testing fiber apps, properly"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/post/%d", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "testing fiber apps, properly", body["title"])
	assert.Equal(t, "go", body["topic"])
	assert.Equal(t, "use app.Test", body["text"])

	// An empty patch is rejected.
	resp, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/post/%d", postID), aliceToken, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No fields provided to update.", body["message"])

	// Soft delete by a non-owner is not-found; by the owner it hides the
	// post from every read path.
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/post/%d", postID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/post/%d", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/post/%d", postID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, posts = doJSONList(t, app, http.MethodGet, "/blog-all", bobToken)
	assert.Len(t, posts, 0)
	_, posts = doJSONList(t, app, http.MethodGet, "/blog", aliceToken)
	assert.Len(t, posts, 0)
}

func TestRoutingFallbacks(t *testing.T) {
	app := setupApp(t)

	// Unmatched routes answer 404 with the standard message, without auth.
	resp, body := doJSON(t, app, http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", body["message"])

	// CORS preflight is answered without any auth check.
	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)
	resp2.Body.Close()

	// OPTIONS without an Origin header still gets 204, not the 404 fallback.
	resp3, err := app.Test(httptest.NewRequest(http.MethodOptions, "/tasks", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp3.StatusCode)
	resp3.Body.Close()
}
