package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/badge"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/progress"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_progressApi_query(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/progress")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("lazy day read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/2", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var p progress.DayProgress
		decodeBody(t, rec, &p)
		if p.Day != 2 || p.Completed || len(p.CompletedSections) != 0 {
			t.Errorf("unexpected record: %+v", p)
		}

		// the read did not persist anything
		req, rec = newAuthRequest(http.MethodGet, "/v1/progress", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("invalid day", func(t *testing.T) {
		for _, day := range []string{"0", "6", "lol"} {
			req, rec := newAuthRequest(http.MethodGet, "/v1/progress/"+day, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: progress.ErrInvalidDay.Error()}),
			}, rec)
		}
	})
}

func Test_progressApi_updateSection(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	t.Run("unknown section", func(t *testing.T) {
		body := []byte(`{"section_id":"bogus","completed":true}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/progress/1/sections", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Error         string   `json:"error"`
			ValidSections []string `json:"valid_sections"`
		}
		decodeBody(t, rec, &res)
		if res.Error == "" {
			t.Error("expected an error message")
		}
		want := []string{"intro", "basics", "quiz1"}
		if fmt.Sprint(res.ValidSections) != fmt.Sprint(want) {
			t.Errorf("valid_sections = %v; want %v", res.ValidSections, want)
		}
	})

	t.Run("missing completed flag", func(t *testing.T) {
		body := []byte(`{"section_id":"intro"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/progress/1/sections", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("toggle", func(t *testing.T) {
		mark := func(completed bool) progress.DayProgress {
			body := []byte(fmt.Sprintf(`{"section_id":"intro","completed":%t}`, completed))
			req, rec := newAuthRequest(http.MethodPut, "/v1/progress/1/sections", token, body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
			}
			var p progress.DayProgress
			decodeBody(t, rec, &p)
			return p
		}

		if p := mark(true); len(p.CompletedSections) != 1 {
			t.Errorf("completed_sections = %v", p.CompletedSections)
		}
		if p := mark(true); len(p.CompletedSections) != 1 { // idempotent
			t.Errorf("completed_sections = %v", p.CompletedSections)
		}
		if p := mark(false); len(p.CompletedSections) != 0 {
			t.Errorf("completed_sections = %v", p.CompletedSections)
		}
	})
}

func Test_progressApi_slides(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	// any slide id goes; slides are not graded
	body := []byte(`{"slide_id":"deck-42","completed":true}`)
	req, rec := newAuthRequest(http.MethodPut, "/v1/progress/4/slides", token, body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var p progress.DayProgress
	decodeBody(t, rec, &p)
	if len(p.CompletedSlides) != 1 || p.CompletedSlides[0] != "deck-42" {
		t.Errorf("completed_slides = %v", p.CompletedSlides)
	}
	if len(p.CompletedSections) != 0 {
		t.Errorf("slides must not count as sections: %v", p.CompletedSections)
	}
}

func Test_progressApi_submitQuiz(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	submit := func(day int, body string) (*progress.QuizResult, int, string) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/progress/%d/quizzes", day), token, []byte(body))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return nil, rec.Code, rec.Body.String()
		}
		var res progress.QuizResult
		decodeBody(t, rec, &res)
		return &res, rec.Code, rec.Body.String()
	}

	t.Run("score out of range", func(t *testing.T) {
		if _, code, _ := submit(1, `{"quiz_id":"quiz1","score":101}`); code != http.StatusBadRequest {
			t.Errorf("code = %v", code)
		}
		if _, code, _ := submit(1, `{"quiz_id":"quiz1","score":-1}`); code != http.StatusBadRequest {
			t.Errorf("code = %v", code)
		}
	})

	t.Run("missing score", func(t *testing.T) {
		if _, code, _ := submit(1, `{"quiz_id":"quiz1"}`); code != http.StatusBadRequest {
			t.Errorf("code = %v", code)
		}
	})

	t.Run("passing score earns quiz_master", func(t *testing.T) {
		res, code, body := submit(1, `{"quiz_id":"quiz1","score":85}`)
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}
		if !res.CountedSection {
			t.Error("expected counted_as_section = true")
		}
		if res.Progress.QuizScores["quiz1"] != 85 {
			t.Errorf("quiz_scores = %v", res.Progress.QuizScores)
		}
		if res.AwardedBadge == nil || res.AwardedBadge.Kind != badge.KindQuizMaster {
			t.Errorf("awarded_badge = %+v", res.AwardedBadge)
		}
	})

	t.Run("quiz_master only once", func(t *testing.T) {
		res, code, body := submit(2, `{"quiz_id":"quiz2","score":92}`)
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}
		if res.AwardedBadge != nil {
			t.Errorf("awarded_badge = %+v", res.AwardedBadge)
		}
	})

	t.Run("unlisted quiz saves score with warning", func(t *testing.T) {
		res, code, body := submit(1, `{"quiz_id":"mystery","score":60}`)
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}
		if res.CountedSection {
			t.Error("expected counted_as_section = false")
		}
		if res.Warning == "" {
			t.Error("expected a warning")
		}
		if res.Progress.QuizScores["mystery"] != 60 {
			t.Errorf("quiz_scores = %v", res.Progress.QuizScores)
		}
	})
}

func Test_progressApi_completeDay(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	complete := func(day int) (int, string) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/progress/%d/complete", day), token)
		app.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}
	markSection := func(day int, id string) {
		body := []byte(fmt.Sprintf(`{"section_id":%q,"completed":true}`, id))
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/progress/%d/sections", day), token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("markSection(%d, %s): code = %v; body %s", day, id, rec.Code, rec.Body.String())
		}
	}

	t.Run("no record yet", func(t *testing.T) {
		code, body := complete(1)
		if code != http.StatusBadRequest {
			t.Errorf("code = %v; body %s", code, body)
		}
	})

	t.Run("incomplete day lists missing sections", func(t *testing.T) {
		markSection(1, "intro")
		markSection(1, "basics")

		req, rec := newAuthRequest(http.MethodPost, "/v1/progress/1/complete", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Error           string   `json:"error"`
			MissingSections []string `json:"missing_sections"`
			CompletedCount  int      `json:"completed_count"`
			TotalCount      int      `json:"total_count"`
		}
		decodeBody(t, rec, &res)
		if fmt.Sprint(res.MissingSections) != fmt.Sprint([]string{"quiz1"}) {
			t.Errorf("missing_sections = %v", res.MissingSections)
		}
		if res.CompletedCount != 2 || res.TotalCount != 3 {
			t.Errorf("counts = %d/%d", res.CompletedCount, res.TotalCount)
		}
	})

	t.Run("complete after finishing the quiz", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/progress/1/quizzes", token, []byte(`{"quiz_id":"quiz1","score":75}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		code, body := complete(1)
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}

		// badges: day 1 complete + quiz master
		req, rec = newAuthRequest(http.MethodGet, "/v1/badges", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var badges []badge.Badge
		decodeBody(t, rec, &badges)
		if len(badges) != 2 {
			t.Errorf("badges = %+v", badges)
		}
	})

	t.Run("completing again is idempotent", func(t *testing.T) {
		code, body := complete(1)
		if code != http.StatusOK {
			t.Fatalf("code = %v; body %s", code, body)
		}
	})
}

func Test_courseApi_days(t *testing.T) {
	app := setup(t)

	// no auth required for static course content
	req, rec := newRequest(http.MethodGet, "/v1/course/days")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		CourseID  string       `json:"course_id"`
		Title     string       `json:"title"`
		TotalDays int          `json:"total_days"`
		Days      []course.Day `json:"days"`
	}
	decodeBody(t, rec, &res)
	if res.CourseID != course.ID || res.TotalDays != course.TotalDays {
		t.Errorf("course = %+v", res)
	}
	if len(res.Days) != course.TotalDays {
		t.Errorf("days = %d", len(res.Days))
	}
	for _, d := range res.Days {
		if len(d.Sections) == 0 {
			t.Errorf("day %d has no sections", d.Number)
		}
	}
}
