package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joeyaochen/portfolio/internal/carousel"
	"github.com/joeyaochen/portfolio/internal/chat"
	"github.com/joeyaochen/portfolio/internal/clock"
	"github.com/joeyaochen/portfolio/internal/config"
	"github.com/joeyaochen/portfolio/internal/filter"
	"github.com/joeyaochen/portfolio/internal/form"
	"github.com/joeyaochen/portfolio/internal/logging"
	"github.com/joeyaochen/portfolio/internal/nav"
	"github.com/joeyaochen/portfolio/internal/profile"
	"github.com/joeyaochen/portfolio/internal/resume"
	"github.com/joeyaochen/portfolio/internal/session"
	"github.com/joeyaochen/portfolio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionKey = "session"

// app holds everything the HTTP handlers share.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    clock.Clock
	profile  *profile.Profile
	store    *store.Store
	resolver chat.Resolver
	sessions *session.Manager
	delivery *contactDelivery
	admin    *adminAuth
}

func newApp(cfg config.Config, logger *zap.Logger, clk clock.Clock, p *profile.Profile, st *store.Store, resolver chat.Resolver) (*app, error) {
	admin, err := newAdminAuth(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:      cfg,
		logger:   logger,
		clock:    clk,
		profile:  p,
		store:    st,
		resolver: resolver,
		delivery: newContactDelivery(st, cfg, logger),
		admin:    admin,
	}
	a.sessions = session.NewManager(clk, cfg.SessionTTL, a.newSession, logger)
	return a, nil
}

func (a *app) newSession(s *session.Session) {
	s.Nav = nav.New(Sections())
	s.Carousel = carousel.New(len(Slides), a.clock)
	s.Projects = filter.New(ProjectCards, a.clock, filter.Options{Search: true, Tags: ProjectTags})
	s.Writing = filter.New(WritingItems, a.clock, filter.Options{Tags: WritingTags})
	s.Form = form.New(a.clock, form.OnSent(a.delivery.Deliver))
	s.Resume = resume.NewControls()
	s.Chat = chat.New(a.resolver, a.profile.Personal.Email,
		chat.WithRecorder(turnRecorder{store: a.store, sessionID: s.ID, clock: a.clock}),
		chat.WithLogger(a.logger.With(zap.String("session", s.ID))),
	)
}

// turnRecorder writes a session's chat turns to the transcript table.
type turnRecorder struct {
	store     *store.Store
	sessionID string
	clock     clock.Clock
}

func (r turnRecorder) RecordTurn(ctx context.Context, t chat.Turn) error {
	return r.store.AppendTurn(ctx, store.ChatTurn{
		SessionID: r.sessionID,
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: r.clock.Now(),
	})
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"lower": strings.ToLower,
		"add":   func(a, b int) int { return a + b },
		"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"ms":    func(d time.Duration) int64 { return d.Milliseconds() },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func (a *app) routes() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(logging.Middleware(a.logger, "/health"), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/health", a.health)

	site := r.Group("/")
	site.Use(a.sessionMiddleware(), a.visitorTrackingMiddleware())

	site.GET("/", a.index)

	site.GET("/nav", a.navView)
	site.POST("/nav/select/:id", a.navSelect)
	site.POST("/nav/menu/toggle", a.navToggleMenu)
	site.POST("/nav/menu/collapse", a.navCollapseMenu)
	site.POST("/nav/scroll", a.navScroll)

	site.GET("/carousel", a.carouselView)
	site.POST("/carousel/:action", a.carouselAction)

	site.GET("/projects", a.filterView("projects"))
	site.POST("/projects/category/:category", a.filterCategory("projects"))
	site.POST("/projects/search", a.projectSearch)
	site.POST("/projects/reset", a.filterReset("projects"))

	site.GET("/writing", a.filterView("writing"))
	site.POST("/writing/category/:category", a.filterCategory("writing"))
	site.POST("/writing/reset", a.filterReset("writing"))

	site.GET("/contact", a.contactView)
	site.POST("/contact/blur", a.contactField(true))
	site.POST("/contact/input", a.contactField(false))
	site.POST("/contact", a.contactSubmit)
	site.POST("/contact/dismiss", a.contactDismiss)

	site.GET("/resume", a.resumeView)
	site.POST("/resume/lang/:lang", a.resumeSelect)
	site.GET("/resume/download", a.resumeDownload)
	site.GET("/resume/info", a.resumeInfo)

	site.GET("/chat", a.chatView)
	site.POST("/chat/toggle", a.chatToggle)
	site.POST("/chat/open", a.chatOpen)
	site.POST("/chat/close", a.chatClose)
	site.POST("/chat/send", a.chatSend)
	site.POST("/chat/suggest/:index", a.chatSuggest)
	site.POST("/api/chat", a.apiChat)

	a.setupAdminRoutes(r)
	return r, nil
}

func (a *app) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(session.CookieName)
		s, _ := a.sessions.GetOrCreate(id)
		// The cookie follows the sliding server-side expiry.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, s.ID, int(a.cfg.SessionTTL.Seconds()), "/", "", false, true)
		c.Set(sessionKey, s)
		c.Next()
	}
}

func sess(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// wantsJSON reports whether the client asked for JSON instead of an HTML
// fragment. HTMX requests always get HTML.
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("HX-Request") == "true" {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func respond(c *gin.Context, status int, name string, data, body any) {
	if wantsJSON(c) {
		c.JSON(status, body)
		return
	}
	c.HTML(status, name, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, nav.ErrUnknownSection),
		errors.Is(err, resume.ErrUnknownLanguage),
		errors.Is(err, filter.ErrUnknownCategory),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrBusy), errors.Is(err, form.ErrSubmitting):
		return http.StatusConflict
	case errors.Is(err, form.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, chat.ErrEmpty),
		errors.Is(err, form.ErrUnknown),
		errors.Is(err, filter.ErrSearchDisabled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if wantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Abort()
	c.String(status, err.Error())
}

func (a *app) health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if err := a.store.Ping(c.Request.Context()); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"sessions":   a.sessions.Len(),
		"completion": a.cfg.CompletionEnabled(),
		"smtp":       a.cfg.SMTPConfigured(),
	})
}

// --- page ---

type slideData struct {
	Slide
	Index  int
	Active bool
}

type carouselData struct {
	View   carousel.View
	Slides []slideData
}

func newCarouselData(v carousel.View) carouselData {
	d := carouselData{View: v}
	for _, sv := range v.Slides {
		d.Slides = append(d.Slides, slideData{Slide: Slides[sv.Index], Index: sv.Index, Active: sv.Active})
	}
	return d
}

type filterData struct {
	Name    string
	View    filter.View
	Refresh bool
}

// pageData feeds index.html and the sections fragment. OOB marks the
// sections for an out-of-band swap after a navigation request; Reveal holds
// the card delays of the section just selected.
type pageData struct {
	Profile    *profile.Profile
	AboutMe    string
	Nav        nav.View
	Carousel   carouselData
	Projects   filterData
	Writing    filterData
	Contact    form.View
	Resume     resume.View
	Chat       chat.View
	Completion bool
	OOB        bool
	Reveal     []nav.RevealStep
}

func (a *app) page(s *session.Session) pageData {
	s.Carousel.Show()
	return pageData{
		Profile:    a.profile,
		AboutMe:    AboutMe,
		Nav:        s.Nav.View(),
		Carousel:   newCarouselData(s.Carousel.View()),
		Projects:   filterData{Name: "projects", View: s.Projects.View()},
		Writing:    filterData{Name: "writing", View: s.Writing.View()},
		Contact:    s.Form.View(),
		Resume:     s.Resume.View(),
		Chat:       s.Chat.View(),
		Completion: a.cfg.CompletionEnabled(),
	}
}

func (a *app) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", a.page(sess(c)))
}

// --- navigation ---

func (a *app) navView(c *gin.Context) {
	v := sess(c).Nav.View()
	respond(c, http.StatusOK, "nav.html", v, v)
}

func (a *app) navSelect(c *gin.Context) {
	s := sess(c)
	tr, err := s.Nav.Select(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("HX-Trigger", `{"sectionChanged":"`+tr.Section+`"}`)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"transition": tr, "nav": s.Nav.View()})
		return
	}
	// The nav is the swap target; the sections follow out of band so the
	// newly active one shows with its reveal delays.
	d := a.page(s)
	d.OOB = true
	d.Reveal = tr.Reveal
	c.HTML(http.StatusOK, "nav-select.html", d)
}

func (a *app) navToggleMenu(c *gin.Context) {
	s := sess(c)
	s.Nav.ToggleMenu()
	v := s.Nav.View()
	respond(c, http.StatusOK, "nav.html", v, v)
}

func (a *app) navCollapseMenu(c *gin.Context) {
	s := sess(c)
	s.Nav.CollapseMenu()
	v := s.Nav.View()
	respond(c, http.StatusOK, "nav.html", v, v)
}

func (a *app) navScroll(c *gin.Context) {
	y, err := strconv.Atoi(c.DefaultPostForm("y", c.Query("y")))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid scroll offset")
		return
	}
	s := sess(c)
	s.Nav.Scroll(y)
	v := s.Nav.View()
	respond(c, http.StatusOK, "nav.html", v, v)
}

// --- carousel ---

func (a *app) carouselView(c *gin.Context) {
	car := sess(c).Carousel
	car.Show()
	v := car.View()
	respond(c, http.StatusOK, "carousel.html", newCarouselData(v), v)
}

func (a *app) carouselAction(c *gin.Context) {
	s := sess(c)
	car := s.Carousel
	car.Show()

	switch c.Param("action") {
	case "next":
		car.Next()
	case "prev":
		car.Prev()
	case "select":
		i, err := strconv.Atoi(c.DefaultPostForm("index", c.Query("index")))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid slide index")
			return
		}
		car.Select(i)
	case "hover":
		car.Hover()
	case "leave":
		car.Leave()
	case "swipe-start", "swipe-move":
		x, err := strconv.ParseFloat(c.DefaultPostForm("x", c.Query("x")), 64)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid swipe position")
			return
		}
		if c.Param("action") == "swipe-start" {
			car.SwipeStart(x)
		} else {
			car.SwipeMove(x)
		}
	case "swipe-end":
		car.SwipeEnd()
	case "key":
		car.Key(c.DefaultPostForm("key", c.Query("key")), s.Nav.Active() == "home")
	default:
		c.String(http.StatusNotFound, "unknown carousel action")
		return
	}

	v := car.View()
	respond(c, http.StatusOK, "carousel.html", newCarouselData(v), v)
}

// --- filters ---

func collection(s *session.Session, name string) *filter.Controller {
	if name == "writing" {
		return s.Writing
	}
	return s.Projects
}

func (a *app) renderFilter(c *gin.Context, name string, refresh bool) {
	v := collection(sess(c), name).View()
	respond(c, http.StatusOK, "filter.html", filterData{Name: name, View: v, Refresh: refresh}, v)
}

func (a *app) filterView(name string) gin.HandlerFunc {
	return func(c *gin.Context) { a.renderFilter(c, name, false) }
}

func (a *app) filterCategory(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := collection(sess(c), name).SetCategory(c.Param("category")); err != nil {
			abortWithError(c, err)
			return
		}
		a.renderFilter(c, name, false)
	}
}

func (a *app) filterReset(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection(sess(c), name).Reset()
		a.renderFilter(c, name, false)
	}
}

// projectSearch feeds keystrokes through the debounce. The returned
// fragment re-fetches itself once the quiet period has passed. Clients that
// debounce on their side send immediate=1.
func (a *app) projectSearch(c *gin.Context) {
	s := sess(c)
	q := c.PostForm("q")
	if c.PostForm("immediate") == "1" || c.Query("immediate") == "1" {
		if err := s.Projects.SetSearch(q); err != nil {
			abortWithError(c, err)
			return
		}
		a.renderFilter(c, "projects", false)
		return
	}
	if err := s.Projects.Input(q); err != nil {
		abortWithError(c, err)
		return
	}
	a.renderFilter(c, "projects", true)
}

// --- contact form ---

func (a *app) contactView(c *gin.Context) {
	v := sess(c).Form.View()
	respond(c, http.StatusOK, "contact.html", v, v)
}

func (a *app) contactField(blur bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := sess(c).Form
		name, value := c.PostForm("field"), c.PostForm("value")
		var (
			fe  *form.FieldError
			err error
		)
		if blur {
			fe, err = f.Blur(name, value)
		} else {
			fe, err = f.Input(name, value)
		}
		if err != nil {
			abortWithError(c, err)
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusOK, gin.H{"field": name, "error": fe})
			return
		}
		c.HTML(http.StatusOK, "field-error.html", fe)
	}
}

func (a *app) contactSubmit(c *gin.Context) {
	f := sess(c).Form
	values := map[string]string{}
	for _, fd := range form.ContactFields {
		values[fd.Name] = c.PostForm(fd.Name)
	}

	bad, err := f.Submit(values)
	v := f.View()
	switch {
	case errors.Is(err, form.ErrInvalid):
		respond(c, http.StatusUnprocessableEntity, "contact.html", v, gin.H{"errors": bad})
	case err != nil:
		abortWithError(c, err)
	default:
		respond(c, http.StatusAccepted, "contact.html", v, v)
	}
}

func (a *app) contactDismiss(c *gin.Context) {
	f := sess(c).Form
	f.DismissNotification()
	v := f.View()
	respond(c, http.StatusOK, "contact.html", v, v)
}

// --- resume ---

func (a *app) resumeView(c *gin.Context) {
	v := sess(c).Resume.View()
	respond(c, http.StatusOK, "resume.html", v, v)
}

func (a *app) resumeSelect(c *gin.Context) {
	r := sess(c).Resume
	if err := r.Select(resume.Language(c.Param("lang"))); err != nil {
		abortWithError(c, err)
		return
	}
	v := r.View()
	respond(c, http.StatusOK, "resume.html", v, v)
}

func (a *app) resumeDownload(c *gin.Context) {
	lang := sess(c).Resume.Language()
	if q := c.Query("lang"); q != "" {
		lang = resume.Language(q)
	}
	path, err := resume.Locate(a.cfg.ResumeDir, lang)
	if err != nil {
		abortWithError(c, err)
		return
	}
	name, _ := resume.Filename(lang)
	c.FileAttachment(path, name)
}

func (a *app) resumeInfo(c *gin.Context) {
	path, err := resume.Locate(a.cfg.ResumeDir, sess(c).Resume.Language())
	if err != nil {
		abortWithError(c, err)
		return
	}
	info, err := resume.Inspect(path)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// --- chat ---

func (a *app) chatView(c *gin.Context) {
	v := sess(c).Chat.View()
	respond(c, http.StatusOK, "chat.html", v, v)
}

func (a *app) chatToggle(c *gin.Context) {
	w := sess(c).Chat
	w.Toggle()
	a.chatView(c)
}

func (a *app) chatOpen(c *gin.Context) {
	sess(c).Chat.Open()
	a.chatView(c)
}

func (a *app) chatClose(c *gin.Context) {
	sess(c).Chat.ClickOutside()
	a.chatView(c)
}

func (a *app) chatSend(c *gin.Context) {
	w := sess(c).Chat
	if _, err := w.Send(c.Request.Context(), c.PostForm("message")); err != nil {
		abortWithError(c, err)
		return
	}
	a.chatView(c)
}

func (a *app) chatSuggest(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid suggestion")
		return
	}
	if _, err := sess(c).Chat.SendSuggestion(c.Request.Context(), i); err != nil {
		abortWithError(c, err)
		return
	}
	a.chatView(c)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Reply   string          `json:"reply"`
	HTML    template.HTML   `json:"html"`
	History []chat.TurnView `json:"history"`
}

func (a *app) apiChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	w := sess(c).Chat
	reply, err := w.Send(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chatResponse{
		Reply:   reply.Content,
		HTML:    chat.FormatMessage(reply.Content),
		History: w.View().Turns,
	})
}
