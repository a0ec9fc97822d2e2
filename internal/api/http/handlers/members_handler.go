package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-access-service/internal/api/dto"
	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/repository"
	"github.com/spec-kit/gym-access-service/internal/service"
	apperrors "github.com/spec-kit/gym-access-service/pkg/util/errorutil"
)

// MembersHandler manages member administration endpoints.
type MembersHandler struct {
	service *service.MemberService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(memberService *service.MemberService) *MembersHandler {
	return &MembersHandler{service: memberService}
}

// Register POST /members.
func (h *MembersHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.service.Register(c.Context(), service.MemberCreateInput{
		RFIDTag:            req.RFIDTag,
		Name:               req.Name,
		Email:              req.Email,
		ProfileImageURL:    req.ProfileImageURL,
		VisitorKind:        req.VisitorKind,
		BillingKind:        req.BillingKind,
		Balance:            req.Balance,
		SubscriptionExpiry: req.SubscriptionExpiry,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromMember(member)})
}

// Update PATCH /members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("member id required", nil)
	}

	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.service.Update(c.Context(), id, service.MemberUpdateInput{
		Name:               req.Name,
		Email:              req.Email,
		ProfileImageURL:    req.ProfileImageURL,
		BillingKind:        req.BillingKind,
		Balance:            req.Balance,
		SubscriptionExpiry: req.SubscriptionExpiry,
		Active:             req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromMember(member)})
}

// GetByTag GET /members/:tag.
func (h *MembersHandler) GetByTag(c *fiber.Ctx) error {
	tag := c.Params("tag")
	if tag == "" {
		return apperrors.NewValidationError("rfid tag required", nil)
	}

	member, err := h.service.GetByTag(c.Context(), tag)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromMember(member)})
}

// List GET /members.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	filter := repository.MemberFilter{
		NameLike: c.Query("name"),
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}
	if v := c.Query("visitor_kind"); v != "" {
		kind := domain.VisitorKind(v)
		filter.VisitorKind = &kind
	}
	if v := c.Query("billing_kind"); v != "" {
		kind := domain.BillingKind(v)
		filter.BillingKind = &kind
	}
	if c.Query("active") != "" {
		v := c.QueryBool("active")
		filter.Active = &v
	}

	members, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}

	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, dto.FromMember(&members[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
