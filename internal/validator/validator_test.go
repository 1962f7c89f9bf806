package validator

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/apperror"
)

type assignForm struct {
	StudentID string `form:"student_id" binding:"required"`
	CourseID  string `form:"course_id" json:"course_id" binding:"required"`
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	Setup()
	m.Run()
}

func formContext(body url.Values) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestBindFormReportsTagNames(t *testing.T) {
	var dst assignForm
	err := BindForm(formContext(url.Values{}), &dst)

	ve, ok := err.(*apperror.ValidationError)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, name := range []string{"student_id", "course_id"} {
		if _, ok := ve.Fields[name]; !ok {
			t.Errorf("missing field %q in %v", name, ve.Fields)
		}
	}
}

func TestBindFormSuccess(t *testing.T) {
	var dst assignForm
	if err := BindForm(formContext(url.Values{"student_id": {"3"}, "course_id": {"CS101"}}), &dst); err != nil {
		t.Fatal(err)
	}
	if dst.StudentID != "3" || dst.CourseID != "CS101" {
		t.Fatalf("unexpected bind result %+v", dst)
	}
}

func jsonContext(body string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindReportsDecodeErrors(t *testing.T) {
	c := jsonContext("{not json")

	var dst assignForm
	if err := Bind(c, &dst); !apperror.IsPayload(err) {
		t.Fatalf("expected payload error, got %v", err)
	}
	if !IsJSON(c) {
		t.Fatal("expected JSON request")
	}
}

func TestBindReportsMissingJSONFields(t *testing.T) {
	var dst assignForm
	err := Bind(jsonContext(`{"course_id":"CS101"}`), &dst)
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBindFormTruncatedJSON(t *testing.T) {
	var dst assignForm
	err := BindForm(jsonContext(`{"student_id": "3",`), &dst)
	if !apperror.IsPayload(err) || apperror.IsValidation(err) {
		t.Fatalf("expected payload error, got %v", err)
	}
}
