package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Project struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func TestProjectAPI(t *testing.T) {
	requireServer(t)

	code := fmt.Sprintf("IT-%d", time.Now().UnixNano())
	var projectID uint

	// Test Case 1: Create Project
	t.Run("Create Project", func(t *testing.T) {
		project := Project{
			Name:        "Integration Project",
			Code:        code,
			Description: "created by integration test",
		}

		payload, err := json.Marshal(project)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/projects", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var response Project
		err = json.NewDecoder(resp.Body).Decode(&response)
		require.NoError(t, err)
		assert.NotZero(t, response.ID)
		assert.Equal(t, project.Name, response.Name)
		assert.Equal(t, "active", response.Status)
		projectID = response.ID
	})

	// Test Case 2: Duplicate Code Rejected
	t.Run("Duplicate Code Rejected", func(t *testing.T) {
		project := Project{Name: "Another Project", Code: code}
		payload, err := json.Marshal(project)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/projects", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	// Test Case 3: Get Project
	t.Run("Get Project", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/projects/%d", BaseURL, projectID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var project Project
		err = json.NewDecoder(resp.Body).Decode(&project)
		require.NoError(t, err)
		assert.Equal(t, code, project.Code)
	})

	// Test Case 4: Update Project
	t.Run("Update Project", func(t *testing.T) {
		body := map[string]string{"status": "inactive"}
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPut,
			fmt.Sprintf("%s/projects/%d", BaseURL, projectID), bytes.NewBuffer(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response Project
		err = json.NewDecoder(resp.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "inactive", response.Status)
	})

	// Test Case 5: Delete Project
	t.Run("Delete Project", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete,
			fmt.Sprintf("%s/projects/%d", BaseURL, projectID), nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// Test Case 6: Get Non-existent Project
	t.Run("Get Non-existent Project", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/projects/%d", BaseURL, projectID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
