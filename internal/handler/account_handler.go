package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
)

// AccountHandler serves the admin-only account pages.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler constructs an account handler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// List renders the filtered account table.
func (h *AccountHandler) List(c *gin.Context) {
	filter := models.AccountFilter{
		ListOptions: listOptions(c),
		UserType:    models.UserType(c.Query("user_type")),
		Department:  c.Query("department"),
	}
	accounts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "accounts/list", gin.H{
		"Title":      "Accounts",
		"Accounts":   accounts,
		"Pagination": pagination,
		"Filter":     filter,
		"UserTypes":  models.UserTypes,
	})
}

// New renders an empty account form.
func (h *AccountHandler) New(c *gin.Context) {
	renderPage(c, http.StatusOK, "accounts/form", h.formData("New account", "/accounts", false, service.CreateAccountRequest{UserType: models.UserTypeStudent}))
}

// Create submits a new account.
func (h *AccountHandler) Create(c *gin.Context) {
	var req service.CreateAccountRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		renderForm(c, "accounts/form", err, h.formData("New account", "/accounts", false, req))
		return
	}
	redirectWithSuccess(c, "/accounts", "Account created.")
}

// Edit renders the form for an existing account.
func (h *AccountHandler) Edit(c *gin.Context) {
	account, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/accounts", err)
		return
	}
	form := service.UpdateAccountRequest{
		Name:       account.Name,
		Email:      account.Email,
		UserType:   account.UserType,
		Department: account.Department,
	}
	renderPage(c, http.StatusOK, "accounts/form", h.formData("Edit account", "/accounts/"+account.ID, true, form))
}

// Update submits account changes.
func (h *AccountHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateAccountRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		renderForm(c, "accounts/form", err, h.formData("Edit account", "/accounts/"+id, true, req))
		return
	}
	redirectWithSuccess(c, "/accounts", "Account updated.")
}

// Delete removes an account.
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/accounts", err)
		return
	}
	redirectWithSuccess(c, "/accounts", "Account deleted.")
}

func (h *AccountHandler) formData(title, action string, editing bool, form interface{}) gin.H {
	return gin.H{
		"Title":     title,
		"Action":    action,
		"Editing":   editing,
		"Form":      form,
		"UserTypes": models.UserTypes,
	}
}
