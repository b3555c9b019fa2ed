package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"trade-journal/internal/domain"
	"trade-journal/internal/journal"
)

type signInRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type focusRequest struct {
	ID string `json:"id"`
}

type symbolRequest struct {
	Symbol string `json:"symbol"`
}

// textRequest carries free text. A nil Text means "use the staged text".
type textRequest struct {
	Text *string `json:"text"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type fieldInfo struct {
	Name  domain.ListField `json:"name"`
	Label string           `json:"label"`
}

func (s *Server) handleSymbols(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.Symbols, "meta": fiber.Map{"count": len(domain.Symbols)}})
}

func (s *Server) handleFields(c *fiber.Ctx) error {
	items := make([]fieldInfo, 0, len(domain.ListFields))
	for _, f := range domain.ListFields {
		items = append(items, fieldInfo{Name: f, Label: f.Label()})
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"count": len(items)}})
}

func (s *Server) handleSignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id is required")
	}

	u := &domain.User{ID: req.ID, DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	sess, err := s.sessions.SignIn(c.UserContext(), u)
	return respond(c, sess, err)
}

func (s *Server) handleSignOut(c *fiber.Ctx) error {
	userID := c.Get(UserHeader)
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, UserHeader+" header is required")
	}
	if !s.sessions.SignOut(userID) {
		return fiber.NewError(fiber.StatusNotFound, "no session for "+userID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return respond(c, sess, nil)
}

func (s *Server) handleSetDate(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req dateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return respond(c, sess, sess.SetDate(c.UserContext(), date))
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return respond(c, sess, sess.Refresh(c.UserContext()))
}

func (s *Server) handleFocus(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req focusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	return respond(c, sess, sess.Focus(c.UserContext(), req.ID))
}

func (s *Server) handleClearFocus(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.ClearFocus()
	return respond(c, sess, nil)
}

func (s *Server) handleGetPreferences(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	u := sess.User()
	if u == nil {
		return respond(c, sess, journal.ErrNotSignedIn)
	}
	prefs, err := s.prefs.GetPreferences(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": prefs})
}

func (s *Server) handleSetTheme(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	u := sess.User()
	if u == nil {
		return respond(c, sess, journal.ErrNotSignedIn)
	}
	var req themeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := s.prefs.SetTheme(c.UserContext(), u.ID, req.Theme); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleComposerSymbol(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req symbolRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	sess.Composer().SetSymbol(domain.Symbol(strings.ToUpper(req.Symbol)))
	return respond(c, sess, nil)
}

func (s *Server) handleComposerStaging(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseListField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	return respond(c, sess, sess.Composer().SetStaging(field, text))
}

func (s *Server) handleComposerAdd(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseListField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var req textRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	if req.Text == nil {
		return respond(c, sess, sess.Composer().AddStaged(field))
	}
	return respond(c, sess, sess.Composer().AddItem(field, *req.Text))
}

func (s *Server) handleComposerRemove(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseListField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
	}
	return respond(c, sess, sess.Composer().RemoveItem(field, index))
}

func (s *Server) handleComposerSubmit(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if _, err := sess.Composer().Submit(c.UserContext()); err != nil {
		return respond(c, sess, err)
	}
	c.Status(fiber.StatusCreated)
	return respond(c, sess, nil)
}

func (s *Server) handleComposerReset(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.Composer().Reset()
	return respond(c, sess, nil)
}

func (s *Server) handleEditorBegin(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	field, err := domain.ParseListField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return respond(c, sess, sess.Editor().BeginEdit(field))
}

func (s *Server) handleEditorCancel(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.Editor().Cancel()
	return respond(c, sess, nil)
}

func (s *Server) handleEditorStaging(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	return respond(c, sess, sess.Editor().SetStaging(text))
}

func (s *Server) handleEditorCommit(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req textRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	text := sess.Snapshot().Editor.Staging
	if req.Text != nil {
		text = *req.Text
	}
	return respond(c, sess, sess.Editor().Commit(c.UserContext(), text))
}

func (s *Server) handleEditorDelete(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return respond(c, sess, sess.Editor().RequestDelete())
}

func (s *Server) handleEditorMarkSaved(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return respond(c, sess, sess.Editor().RequestMarkSaved())
}

func (s *Server) handleEditorConfirm(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return respond(c, sess, sess.Editor().Confirm(c.UserContext()))
}

func (s *Server) handleEditorDismiss(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.Editor().Dismiss()
	return respond(c, sess, nil)
}
