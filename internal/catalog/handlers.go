package catalog

import (
	"errors"
	"io"

	"backend-courseplay/internal/course"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store Store, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		courses, err := store.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(courses)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		fh, err := c.FormFile("gpx_file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "gpx_file required")
		}
		name := c.FormValue("name")
		if name == "" {
			name = fh.Filename
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := store.Save(c.Context(), name, data)
		switch {
		case errors.Is(err, ErrInvalidName):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, course.ErrInvalidGeometry):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})
}
