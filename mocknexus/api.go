package mocknexus

import (
	"io"
	"net/http"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

const maxRequestBody = 64 << 10

// readFields decodes a flat JSON object of strings.
func readFields(r *http.Request) (map[string]string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}
	reader := jreader.NewReader(body)
	fields := make(map[string]string)
	for obj := reader.Object(); obj.Next(); {
		fields[string(obj.Name())] = reader.String()
	}
	if err := reader.Error(); err != nil {
		return nil, err
	}
	return fields, nil
}

// writeReply sends {"<key>": text} plus an optional redirect target.
func writeReply(w http.ResponseWriter, status int, key, text, redirect string) {
	jw := jwriter.NewWriter()
	obj := jw.Object()
	obj.Name(key).String(text)
	if redirect != "" {
		obj.Name("redirect").String(redirect)
	}
	obj.End()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jw.Bytes())
}

func writeError(w http.ResponseWriter, status int, text string) {
	writeReply(w, status, "error", text, "")
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	acct, ok := a.accounts.get(f["email"])
	if !ok || acct.password != f["password"] {
		a.debugLogger.Printf("Rejected login for %q", f["email"])
		writeError(w, http.StatusUnauthorized, a.data.Messages.InvalidCredentials)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    a.sessions.open(acct.email),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeReply(w, http.StatusOK, "message", "", "/dashboard")
}

func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	acct := account{
		email:     f["email"],
		password:  f["password"],
		firstName: f["firstName"],
		lastName:  f["lastName"],
		username:  f["username"],
	}
	if problem := registrationProblem(acct, a.data.Messages); problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	if !a.accounts.add(acct) {
		writeError(w, http.StatusConflict, a.data.Messages.DuplicateEmail)
		return
	}
	a.debugLogger.Printf("Registered %s", acct.email)
	writeReply(w, http.StatusCreated, "message", a.data.Messages.RegistrationSuccess, "/login")
}

// handleForgotPassword answers every well-formed request the same way so that the response
// does not reveal which emails are registered.
func (a *App) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !emailPattern.MatchString(f["email"]) {
		writeError(w, http.StatusBadRequest, a.data.Messages.InvalidEmail)
		return
	}
	writeReply(w, http.StatusOK, "message", a.data.Messages.ResetSent, "")
}

// handleResetPassword accepts only the configured reset token. It does not change any stored
// password, so the seeded account stays usable for the rest of a run.
func (a *App) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f["token"] == "" || f["token"] != a.data.ResetToken {
		writeError(w, http.StatusBadRequest, a.data.Messages.InvalidResetToken)
		return
	}
	if problem := passwordProblem(f["password"], a.data.Messages.NewPassword); problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	writeReply(w, http.StatusOK, "message", a.data.Messages.ResetSuccess, "/login")
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.sessions.close(r)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeReply(w, http.StatusOK, "message", "", "/login")
}
