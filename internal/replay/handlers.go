package replay

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"backend-courseplay/internal/catalog"
	"backend-courseplay/internal/course"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/tempfs"
	"backend-courseplay/internal/workout"

	"github.com/gofiber/fiber/v2"
)

const downloadName = "processed.gpx"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		courses := []catalog.Course{}
		if svc.courses != nil {
			list, err := svc.courses.List(c.Context())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			courses = list
		}
		return c.JSON(fiber.Map{"courses": courses})
	})

	r.Post("/upload", func(c *fiber.Ctx) error {
		scope := tempfs.NewScope()
		defer scope.Close()

		fitHeader, err := c.FormFile("fit_file")
		if err != nil || fitHeader.Filename == "" {
			return fiber.NewError(fiber.StatusBadRequest, "fit_file required")
		}
		fitPath, err := saveUpload(scope, svc.opts.UploadDir, fitHeader, ".fit")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		var src RouteSource
		if gpxHeader, err := c.FormFile("gpx_file"); err == nil && gpxHeader.Filename != "" {
			gpxPath, err := saveUpload(scope, svc.opts.UploadDir, gpxHeader, ".gpx")
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			src = Uploaded(gpxPath)
		} else if selected := strings.TrimSpace(c.FormValue("selected_course")); selected != "" {
			src = PreRegistered(selected)
		} else {
			return fiber.NewError(fiber.StatusBadRequest, ErrNoRoute.Error())
		}

		fit, err := os.Open(fitPath)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		defer fit.Close()

		out, res, err := svc.Render(c.Context(), src, fit)
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}

		processed, err := scope.Create(svc.opts.ProcessedDir, ".gpx")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		_, werr := processed.Write(out)
		if cerr := processed.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, werr.Error())
		}
		payload, err := os.ReadFile(processed.Name())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Attachment(downloadName)
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set("X-Track-Points", strconv.Itoa(len(res.Points)))
		c.Set("X-Projection", res.Projection)
		return c.Send(payload)
	})
}

func saveUpload(scope *tempfs.Scope, dir string, fh *multipart.FileHeader, suffix string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = suffix
	}
	dst, err := scope.Create(dir, ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return dst.Name(), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoRoute),
		errors.Is(err, workout.ErrMalformedWorkout),
		errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, projection.ErrUnknownCRS):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrCourseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, course.ErrInvalidGeometry):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, elevation.ErrUnavailable):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
