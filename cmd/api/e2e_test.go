package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-constellation/internal/config"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

type e2eClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *e2eClient) call(method, path string, body any, out any) int {
	c.t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestEndToEnd_ChecklistLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret: "e2e-secret",
		JWTIssuer: "kanso-e2e",
		JWTTTL:    time.Hour,
	}
	app := newApplication(cfg, memoryStores(), zap.NewNop(), time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	app.worker.Start(ctx)
	defer func() {
		cancel()
		<-app.worker.Done()
	}()

	client := &e2eClient{t: t, router: app.router}
	now := time.Now()
	today := domain.FormatDate(now)

	var habitID string

	t.Run("1. Register", func(t *testing.T) {
		code := client.call(http.MethodPost, "/api/v1/auth/register", gin.H{
			"full_name": "Grace Hopper",
			"email":     "grace@example.com",
			"password":  "cobol-forever",
		}, nil)
		require.Equal(t, http.StatusCreated, code)
	})

	t.Run("2. Login", func(t *testing.T) {
		var resp struct {
			Token string `json:"token"`
		}
		code := client.call(http.MethodPost, "/api/v1/auth/login", gin.H{
			"email":    "grace@example.com",
			"password": "cobol-forever",
		}, &resp)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, resp.Token)
		client.token = resp.Token
	})

	t.Run("3. Create daily habit", func(t *testing.T) {
		var habit domain.Habit
		code := client.call(http.MethodPost, "/api/v1/habits", gin.H{
			"name":       "Stretch",
			"recurrence": []int{0, 1, 2, 3, 4, 5, 6},
		}, &habit)
		require.Equal(t, http.StatusCreated, code)
		habitID = habit.ID
	})

	t.Run("4. Today's checklist starts empty", func(t *testing.T) {
		var cl domain.Checklist
		code := client.call(http.MethodGet, "/api/v1/checklist", nil, &cl)
		require.Equal(t, http.StatusOK, code)

		assert.Equal(t, today, cl.Date)
		require.Len(t, cl.Entries, 1)
		assert.False(t, cl.Entries[0].Completed)
	})

	t.Run("5. Mark it done", func(t *testing.T) {
		var cl domain.Checklist
		code := client.call(http.MethodPut, "/api/v1/checklist/"+habitID, gin.H{"completed": true}, &cl)
		require.Equal(t, http.StatusOK, code)

		require.Len(t, cl.Entries, 1)
		assert.True(t, cl.Entries[0].Completed)
		assert.InDelta(t, 100.0, cl.Progress, 0.001)
	})

	t.Run("6. Score counts the completion", func(t *testing.T) {
		var score domain.ConsistencyScore
		code := client.call(http.MethodGet, "/api/v1/score", nil, &score)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, domain.ConsistencyScore{Value: 1, Available: true}, score)
	})

	t.Run("7. Calendar shows today as completed", func(t *testing.T) {
		var view domain.MonthView
		path := "/api/v1/calendar?year=" + strconv.Itoa(now.Year()) + "&month=" + strconv.Itoa(int(now.Month())-1)
		code := client.call(http.MethodGet, path, nil, &view)
		require.Equal(t, http.StatusOK, code)

		day := view.Days[now.Day()-1]
		assert.True(t, day.Today)
		assert.Equal(t, 1, day.DueHabits)
		assert.Equal(t, 1, day.Completed)
	})

	t.Run("8. Worker refreshes the streak", func(t *testing.T) {
		require.Eventually(t, func() bool {
			var habits []domain.Habit
			if client.call(http.MethodGet, "/api/v1/habits", nil, &habits) != http.StatusOK || len(habits) != 1 {
				return false
			}
			return habits[0].Streak == 1 && habits[0].LastMarked != nil
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("9. Profile mirrors the score", func(t *testing.T) {
		require.Eventually(t, func() bool {
			var resp struct {
				User struct {
					HabitScore int `json:"habit_score"`
				} `json:"user"`
			}
			code := client.call(http.MethodPost, "/api/v1/auth/login", gin.H{
				"email":    "grace@example.com",
				"password": "cobol-forever",
			}, &resp)
			return code == http.StatusOK && resp.User.HabitScore == 1
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("10. Unmark is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			var cl domain.Checklist
			code := client.call(http.MethodPut, "/api/v1/checklist/"+habitID, gin.H{"completed": false}, &cl)
			require.Equal(t, http.StatusOK, code)
			assert.False(t, cl.Entries[0].Completed)
		}

		var score domain.ConsistencyScore
		client.call(http.MethodGet, "/api/v1/score", nil, &score)
		assert.Equal(t, 0, score.Value)
	})
}

func TestRootCommand_Wiring(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"serve", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	assert.NotNil(t, cmd.Flags().Lookup("memory"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
}
