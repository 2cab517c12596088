package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lawbridge/lawbridge-api/db"
	"github.com/lawbridge/lawbridge-api/utils"
	"github.com/lawbridge/lawbridge-api/validation"
)

type updateProfileRequest struct {
	Bio               *string  `json:"bio" validate:"omitempty,max=2000"`
	LicenseNumber     *string  `json:"license_number" validate:"omitempty,max=100"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,min=0,max=80"`
	PracticeAreas     []string `json:"practice_areas" validate:"omitempty,dive,max=100"`
	ConsultationFee   *float64 `json:"consultation_fee" validate:"omitempty,min=0"`
	AcceptingBookings *bool    `json:"accepting_bookings"`
}

// GetMyProfile returns the logged-in lawyer's profile.
func GetMyProfile(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	profile, err := lawyers.Get(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Lawyer profile not found", err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile patches the logged-in lawyer's profile. Verification
// status can only be changed by an admin, never here.
func UpdateMyProfile(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	req := new(updateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid profile update",
			Error:   err.Error(),
		})
	}

	profile, err := lawyers.Get(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Lawyer profile not found", err)
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.LicenseNumber != nil {
		profile.LicenseNumber = *req.LicenseNumber
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.PracticeAreas != nil {
		profile.SetPracticeAreas(req.PracticeAreas)
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.AcceptingBookings != nil {
		profile.AcceptingBookings = *req.AcceptingBookings
	}

	if err := db.DB.WithContext(c.Context()).Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   err.Error(),
		})
	}
	return c.JSON(profile)
}

// UploadVerificationDocument stores a bar license or similar credential
// and attaches it to the lawyer's profile for admin review.
func UploadVerificationDocument(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	profile, err := lawyers.Get(c.Context(), userID)
	if err != nil {
		return utils.RespondError(c, "Lawyer profile not found", err)
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing document file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to read uploaded file",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	publicID := fmt.Sprintf("lawyer-%d-%s", userID, uuid.New().String())
	url, err := utils.UploadToCloudinary(file, publicID, "verification-documents")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload document",
			Error:   err.Error(),
		})
	}

	profile.DocumentURL = url
	if err := db.DB.WithContext(c.Context()).Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save document reference",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"document_url": url,
	})
}

// VerifyLawyer is the admin action that makes a lawyer bookable.
func VerifyLawyer(c *fiber.Ctx) error {
	lawyerID, err := c.ParamsInt("id")
	if err != nil || lawyerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lawyer ID",
		})
	}

	profile, err := lawyers.Get(c.Context(), uint(lawyerID))
	if err != nil {
		return utils.RespondError(c, "Lawyer profile not found", err)
	}

	profile.Verified = true
	if err := db.DB.WithContext(c.Context()).Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to verify lawyer",
			Error:   err.Error(),
		})
	}

	return c.JSON(profile)
}
