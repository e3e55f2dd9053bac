package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"school-api/access"
	"school-api/common"
	"school-api/model"
	"school-api/schema"
	"school-api/service"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]*model.AppClaims

func (s stubTokens) ParseToken(token string) (*model.AppClaims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Resolve(ctx context.Context, claims *model.AppClaims) (*model.Identity, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

type gateFixture struct {
	student  model.Identity
	teacher  model.Identity
	tokens   stubTokens
	resolver *mockResolver
	gate     *Gate
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		student:  model.Identity{ID: uuid.New(), Role: model.RoleStudent, Grade: 2, Class: 3, Serial: 14},
		teacher:  model.Identity{ID: uuid.New(), Role: model.RoleTeacher},
		resolver: new(mockResolver),
	}
	f.tokens = stubTokens{
		"student-token": {UserID: f.student.ID.String(), UserType: model.RoleStudent},
		"teacher-token": {UserID: f.teacher.ID.String(), UserType: model.RoleTeacher},
	}
	f.gate = NewGate(f.tokens, f.resolver)
	return f
}

func (f *gateFixture) expectResolve(token string, identity model.Identity) {
	f.resolver.On("Resolve", mock.Anything, f.tokens[token]).Return(&identity, nil).Once()
}

func request(method, target, token, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// recordingHandler notes that it ran and echoes the payload it received.
func recordingHandler(called *bool) AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		*called = true
		identity, appErr := identityOf(r)
		if appErr != nil {
			return appErr
		}
		common.WriteJSON(w, http.StatusOK, map[string]any{
			"id":      identity.ID,
			"payload": PayloadFrom(r.Context()),
		})
		return nil
	}
}

var classStatusSchema = schema.Schema{
	"grade": {Kind: schema.Int, Required: true},
	"class": {Kind: schema.Int, Required: true},
}

func TestGate_Authentication(t *testing.T) {
	f := newGateFixture()
	var called bool
	h := f.gate.Guard(access.Authenticated(), nil, recordingHandler(&called))

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"unknown token":  "Bearer forged",
	} {
		t.Run(name, func(t *testing.T) {
			req := request(http.MethodGet, "/x", "", "")
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
	assert.False(t, called)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestGate_RoleRejectedBeforeAnyLookup(t *testing.T) {
	f := newGateFixture()
	var called bool
	h := f.gate.Guard(access.Allow(model.RoleStudent), AttendanceLogSchema, recordingHandler(&called))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, request(http.MethodPost, "/attendance-log", "teacher-token", `{"location":"library","remark":""}`))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestGate_SchemaFailureListsFields(t *testing.T) {
	f := newGateFixture()
	var called bool
	h := f.gate.Guard(access.Allow(model.RoleStudent), AttendanceLogSchema, recordingHandler(&called))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, request(http.MethodPost, "/attendance-log", "student-token", `{"location":7}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Details []schema.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	fields := make([]string, len(body.Details))
	for i, d := range body.Details {
		fields[i] = d.Field
	}
	assert.ElementsMatch(t, []string{"location", "remark"}, fields)
	assert.False(t, called)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestGate_MalformedBody(t *testing.T) {
	f := newGateFixture()
	var called bool
	h := f.gate.Guard(access.Allow(model.RoleStudent), AttendanceLogSchema, recordingHandler(&called))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, request(http.MethodPost, "/attendance-log", "student-token", `["not","an","object"]`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, called)
}

func TestGate_Scope(t *testing.T) {
	policy := access.Allow(model.RoleTeacher, model.RoleStudent).Matching("grade", "class")

	t.Run("student outside their class", func(t *testing.T) {
		f := newGateFixture()
		f.expectResolve("student-token", f.student)
		var called bool
		rr := httptest.NewRecorder()

		f.gate.Guard(policy, classStatusSchema, recordingHandler(&called)).
			ServeHTTP(rr, request(http.MethodGet, "/attendance-log/class-status?grade=2&class=4", "student-token", ""))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, called)
	})

	t.Run("student in their class", func(t *testing.T) {
		f := newGateFixture()
		f.expectResolve("student-token", f.student)
		var called bool
		rr := httptest.NewRecorder()

		f.gate.Guard(policy, classStatusSchema, recordingHandler(&called)).
			ServeHTTP(rr, request(http.MethodGet, "/attendance-log/class-status?grade=2&class=3", "student-token", ""))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
		assert.JSONEq(t, `{"id":"`+f.student.ID.String()+`","payload":{"grade":2,"class":3}}`, rr.Body.String())
	})

	t.Run("teacher any class", func(t *testing.T) {
		f := newGateFixture()
		f.expectResolve("teacher-token", f.teacher)
		var called bool
		rr := httptest.NewRecorder()

		f.gate.Guard(policy, classStatusSchema, recordingHandler(&called)).
			ServeHTTP(rr, request(http.MethodGet, "/attendance-log/class-status?grade=1&class=9", "teacher-token", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
	})
}

func TestGate_UnknownUser(t *testing.T) {
	f := newGateFixture()
	f.resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, service.ErrUserNotFound).Once()
	var called bool
	rr := httptest.NewRecorder()

	f.gate.Guard(access.Authenticated(), nil, recordingHandler(&called)).
		ServeHTTP(rr, request(http.MethodGet, "/users/me", "student-token", ""))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
}

func TestGate_ResolverFailure(t *testing.T) {
	f := newGateFixture()
	f.resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	var called bool
	rr := httptest.NewRecorder()

	f.gate.Guard(access.Authenticated(), nil, recordingHandler(&called)).
		ServeHTTP(rr, request(http.MethodGet, "/users/me", "student-token", ""))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, called)
}

func TestGate_EmptyDeleteBody(t *testing.T) {
	f := newGateFixture()
	var called bool
	rr := httptest.NewRecorder()

	f.gate.Guard(access.Allow(model.RoleStudent), IngangApplicationSchema([]int{1, 2}), recordingHandler(&called)).
		ServeHTTP(rr, request(http.MethodDelete, "/ingang/application", "student-token", ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, called)
}
