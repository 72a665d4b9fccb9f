package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"retailapi/internal/repository"
)

// validate caches struct metadata; safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// bindBody decodes the JSON body into dst and validates it.
// On failure it returns a client-safe description and false.
func bindBody(c *fiber.Ctx, dst any) (string, bool) {
	if err := c.BodyParser(dst); err != nil {
		return "malformed request body", false
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err), false
	}
	return "", true
}

func invalidBody(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", msg)
}

// pathID returns the :id route parameter if it is a uuid.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonPath(fe.Namespace())
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// jsonPath drops the request struct name from a validator namespace ("createRequest.Items[0].Quantity").
func jsonPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// listQuery splits the query string into filters and a page. Services reject unknown filter keys.
func listQuery(c *fiber.Ctx) (map[string]string, repository.PageQuery, error) {
	filters := make(map[string]string)
	for k, v := range c.Queries() {
		if k == "limit" || k == "offset" {
			continue
		}
		filters[utils.CopyString(k)] = utils.CopyString(v)
	}
	page, err := repository.ParsePage(c.Query("limit"), c.Query("offset"))
	return filters, page, err
}
