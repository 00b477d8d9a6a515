package ui

import (
	"errors"
	"net/http"
	"strings"

	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
)

type credentialsBody struct {
	Email    string
	FullName string
	Next     string
	Error    string
}

type profileBody struct {
	Email    string
	FullName string
	Role     string
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	body := credentialsBody{Next: safeNext(r.URL.Query().Get("next"))}
	h.render(w, http.StatusOK, "login", h.newView(w, r, "Entrar", "", nil, body))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body := credentialsBody{
		Email: strings.TrimSpace(r.PostForm.Get("email")),
		Next:  safeNext(r.PostForm.Get("next")),
	}

	resp, err := h.opts.Auth.Login(r.Context(), models.LoginRequest{Email: body.Email, Password: r.PostForm.Get("password")})
	if err != nil {
		status := http.StatusUnauthorized
		body.Error = "E-mail ou senha inválidos."
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrInvalidInput) {
			h.log.WithError(err).Error("login failed")
			status = http.StatusInternalServerError
			body.Error = "Não foi possível entrar. Tente novamente."
		}
		h.render(w, status, "login", h.newView(w, r, "Entrar", "", nil, body))
		return
	}

	auth.SetSessionCookie(w, resp.Token, h.opts.Auth.JWT().Expiry(), h.opts.Secure)
	h.log.WithField("user_id", resp.Profile.UserID).Info("user signed in")
	http.Redirect(w, r, body.Next, http.StatusSeeOther)
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register", h.newView(w, r, "Criar conta", "", nil, credentialsBody{}))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body := credentialsBody{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		FullName: strings.TrimSpace(r.PostForm.Get("full_name")),
	}
	req := models.RegisterRequest{Email: body.Email, Password: r.PostForm.Get("password")}
	if body.FullName != "" {
		req.FullName = &body.FullName
	}

	resp, err := h.opts.Auth.Register(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			status = http.StatusConflict
			body.Error = "Este e-mail já está cadastrado."
		case errors.Is(err, auth.ErrInvalidInput):
			status = http.StatusUnprocessableEntity
			body.Error = "Informe um e-mail válido e uma senha com pelo menos 8 caracteres."
		default:
			h.log.WithError(err).Error("register failed")
			body.Error = "Não foi possível criar a conta. Tente novamente."
		}
		h.render(w, status, "register", h.newView(w, r, "Criar conta", "", nil, body))
		return
	}

	auth.SetSessionCookie(w, resp.Token, h.opts.Auth.JWT().Expiry(), h.opts.Secure)
	h.redirect(w, r, "/", []notify.Notice{notify.Success("Bem-vindo", "Conta criada com sucesso.")})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.opts.Secure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) profilePage(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	p, err := h.opts.Auth.Profile(r.Context(), s.UserID)
	if err != nil {
		h.log.WithError(err).Warn("load profile")
		p = models.Profile{Email: s.Email, Role: s.Role}
		if s.FullName != "" {
			p.FullName = &s.FullName
		}
	}
	body := profileBody{Email: p.Email, Role: p.Role}
	if p.FullName != nil {
		body.FullName = *p.FullName
	}
	h.render(w, http.StatusOK, "profile", h.newView(w, r, "Perfil", "", nil, body))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, _ := auth.SessionFromContext(r.Context())
	name := r.PostForm.Get("full_name")

	resp, err := h.opts.Auth.UpdateProfile(r.Context(), s.UserID, models.UpdateProfileRequest{FullName: &name})
	if err != nil {
		h.log.WithError(err).Warn("update profile")
		h.redirect(w, r, "/perfil", []notify.Notice{
			notify.Failure("Erro", "Não foi possível atualizar o perfil. Tente novamente."),
		})
		return
	}

	auth.SetSessionCookie(w, resp.Token, h.opts.Auth.JWT().Expiry(), h.opts.Secure)
	h.redirect(w, r, "/perfil", []notify.Notice{
		notify.Success("Perfil atualizado", "Suas informações foram salvas com sucesso."),
	})
}
