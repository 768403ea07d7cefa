package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/application/services/procurement"
	"github.com/vsinha/eventprocure/pkg/application/services/purchasing"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// Handlers exposes the procurement and purchasing services over HTTP
type Handlers struct {
	procurement *procurement.Service
	purchasing  *purchasing.Service
}

func NewHandlers(procurementSvc *procurement.Service, purchasingSvc *purchasing.Service) *Handlers {
	return &Handlers{procurement: procurementSvc, purchasing: purchasingSvc}
}

type createAliasRequest struct {
	Label          string `json:"label"`
	SupplierItemID string `json:"supplier_item_id"`
}

type freezeRequest struct {
	Freeze *bool `json:"freeze"`
}

type transitionRequest struct {
	Status entities.PurchaseOrderStatus `json:"status"`
}

type receiptRequest struct {
	LineID string          `json:"line_id"`
	Qty    decimal.Decimal `json:"qty"`
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

func (h *Handlers) EventDemand(c *fiber.Ctx) error {
	demand, err := h.procurement.EventDemand(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(demand)
}

func (h *Handlers) Resolve(c *fiber.Ctx) error {
	res, err := h.procurement.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// PlanEvent derives demand and synthesizes drafts. An aborted synthesis is
// reported with 422 and the unknown labels or unit mismatches in the body.
func (h *Handlers) PlanEvent(c *fiber.Ctx) error {
	plan, err := h.procurement.PlanEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if procurement.IsAbort(plan.Synthesis) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(plan)
	}
	return c.JSON(plan)
}

func (h *Handlers) ListEventOrders(c *fiber.Ctx) error {
	views, err := h.procurement.ListEventOrders(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *Handlers) SendEventOrder(c *fiber.Ctx) error {
	if err := h.procurement.SendEventOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) CancelEventOrder(c *fiber.Ctx) error {
	if err := h.procurement.CancelEventOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) SetLineFreeze(c *fiber.Ctx) error {
	var req freezeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Freeze == nil {
		return badRequest("freeze is required")
	}
	if err := h.procurement.SetLineFreeze(c.UserContext(), c.Params("id"), c.Params("lineId"), *req.Freeze); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) CreateAlias(c *fiber.Ctx) error {
	var req createAliasRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.SupplierItemID == "" {
		return badRequest("supplier_item_id is required")
	}
	alias, err := h.procurement.CreateAlias(c.UserContext(), c.Params("org"), req.Label, req.SupplierItemID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(alias)
}

func (h *Handlers) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req purchasing.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	po, err := h.purchasing.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(po)
}

func (h *Handlers) ListPurchaseOrders(c *fiber.Ctx) error {
	orgID := c.Query("org_id")
	if orgID == "" {
		return badRequest("org_id is required")
	}
	views, err := h.purchasing.List(c.UserContext(), orgID)
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *Handlers) GetPurchaseOrder(c *fiber.Ctx) error {
	view, err := h.purchasing.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *Handlers) TransitionPurchaseOrder(c *fiber.Ctx) error {
	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if !req.Status.Valid() {
		return badRequest("unknown status " + string(req.Status))
	}
	po, err := h.purchasing.Transition(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(po)
}

func (h *Handlers) ReceivePurchaseOrder(c *fiber.Ctx) error {
	var req receiptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.LineID == "" {
		return badRequest("line_id is required")
	}
	po, err := h.purchasing.Receive(c.UserContext(), c.Params("id"), req.LineID, req.Qty)
	if err != nil {
		return err
	}
	return c.JSON(po)
}
