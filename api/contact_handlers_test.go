package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validForm = contact.FormData{
	Name:    "  Ann Guest ",
	Email:   "Ann@Example.COM",
	Subject: "June <visit>",
	Message: "Is the second week of June still open?",
}

type contactResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, body []byte) contactResponse {
	t.Helper()
	var out contactResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSubmitContact_Success(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.MatchedBy(func(s contact.Submission) bool {
		return s.Name == "Ann Guest" &&
			s.Email == "ann@example.com" &&
			s.Subject == "June &lt;visit&gt;" &&
			s.Phone == "" &&
			s.Recipient == "host@example.com" &&
			s.ID != ""
	})).Return(nil).Once()

	deps := testDeps(t)
	deps.Submitter = submitter
	router := setupRouter(deps)

	w := postJSON(t, router, "/api/v1/contact", validForm)

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	body := decode(t, w.Body.Bytes())
	assert.Equal(t, "success", body.Status)
	assert.NotEmpty(t, body.ID)
	assert.Contains(t, body.Message, "24 hours")
	submitter.AssertExpectations(t)
}

func TestSubmitContact_ValidationErrors(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	deps := testDeps(t)
	deps.Submitter = submitter
	router := setupRouter(deps)

	w := postJSON(t, router, "/api/v1/contact", contact.FormData{
		Name:    "A",
		Email:   "not-an-email",
		Phone:   "123",
		Subject: "Hi",
		Message: "short",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w.Body.Bytes())
	assert.Equal(t, "idle", body.Status)
	assert.Equal(t, map[string]string{
		"name":    "Name must be at least 2 characters",
		"email":   "Please enter a valid email address",
		"phone":   "Please enter a valid phone number",
		"subject": "Subject must be at least 3 characters",
		"message": "Message must be at least 10 characters",
	}, body.Errors)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmitContact_SubmitterFailure(t *testing.T) {
	submitter := new(mocks.MockSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything).Return(errors.New("mail relay down"))
	deps := testDeps(t)
	deps.Submitter = submitter
	router := setupRouter(deps)

	w := postJSON(t, router, "/api/v1/contact", validForm)

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w.Body.Bytes())
	assert.Equal(t, "error", body.Status)
	assert.NotContains(t, body.Error, "mail relay down")
}

func TestSubmitContact_BadJSON(t *testing.T) {
	router := setupRouter(testDeps(t))
	w := postJSON(t, router, "/api/v1/contact", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateContactField(t *testing.T) {
	router := setupRouter(testDeps(t))

	var out struct {
		Field string `json:"field"`
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	w := postJSON(t, router, "/api/v1/contact/validate", map[string]string{"field": "Email", "value": "x@"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "email", out.Field)
	assert.False(t, out.Valid)
	assert.Equal(t, "Please enter a valid email address", out.Error)

	w = postJSON(t, router, "/api/v1/contact/validate", map[string]string{"field": "phone", "value": ""})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Valid)

	w = postJSON(t, router, "/api/v1/contact/validate", map[string]string{"field": "fax", "value": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/contact/validate", map[string]string{"value": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactConfig(t *testing.T) {
	router := setupRouter(testDeps(t))

	var out struct {
		Fields []struct {
			Name     string `json:"name"`
			Required bool   `json:"required"`
		} `json:"fields"`
		MaxMessageLength int `json:"maxMessageLength"`
	}
	get(t, router, "/api/v1/contact/config", &out)
	assert.Equal(t, 1000, out.MaxMessageLength)
	require.Len(t, out.Fields, 5)
	assert.Equal(t, "phone", out.Fields[2].Name)
	assert.False(t, out.Fields[2].Required)
	assert.True(t, out.Fields[0].Required)
}
