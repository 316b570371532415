package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
	"github.com/nexusnu/webclient/internal/pkg/imaging"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// UserController handles the directory, profiles and profile editing
type UserController struct {
	userService          services.UserService
	certificationService services.CertificationService
	maxSkills            int
	logger               zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(
	userService services.UserService,
	certificationService services.CertificationService,
	maxSkills int,
	logger zerolog.Logger,
) *UserController {
	return &UserController{
		userService:          userService,
		certificationService: certificationService,
		maxSkills:            maxSkills,
		logger:               logger,
	}
}

// Directory renders every user
func (c *UserController) Directory(ctx *gin.Context) {
	users, err := c.userService.List(requestContext(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list users")
		render(ctx, "users", gin.H{"LoadError": "Failed to load users."})
		return
	}
	render(ctx, "users", gin.H{"Users": users})
}

// Profile renders a user's profile with their posts and events
func (c *UserController) Profile(ctx *gin.Context) {
	profile, err := c.userService.Profile(requestContext(ctx), viewer(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	render(ctx, "profile", gin.H{"Profile": profile})
}

// ToggleFollow follows or unfollows a user
func (c *UserController) ToggleFollow(ctx *gin.Context) {
	id := ctx.Param("id")
	following, err := c.userService.ToggleFollow(requestContext(ctx), viewer(ctx), id)
	if err != nil {
		redirectWithError(ctx, err, "Failed to update follow", "/profile/"+id)
		return
	}
	message := "Unfollowed"
	if following {
		message = "Following"
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, message, "/profile/"+id)
}

// EditPage renders the profile form for the signed-in user
func (c *UserController) EditPage(ctx *gin.Context) {
	user := viewer(ctx)
	c.renderEdit(ctx, &dto.UpdateProfileRequest{
		Name:           user.Name,
		Bio:            user.Bio,
		Major:          user.Major,
		Department:     user.Department,
		Skills:         user.Skills,
		Certifications: user.Certifications,
	}, nil)
}

func (c *UserController) renderEdit(ctx *gin.Context, form *dto.UpdateProfileRequest, err error) {
	data := gin.H{
		"Form":      form,
		"MaxSkills": c.maxSkills,
		"Platforms": validation.CertificationTypes,
	}
	if err != nil {
		renderForm(ctx, "profile_edit", err, data)
		return
	}
	render(ctx, "profile_edit", data)
}

// Update saves the profile, uploading a cropped picture first when one
// was chosen.
func (c *UserController) Update(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := middleware.BindForm(ctx, &req); err != nil {
		c.renderEdit(ctx, &req, err)
		return
	}
	certs, err := parseCertifications(ctx.PostFormArray("cert_json"))
	if err != nil {
		c.renderEdit(ctx, &req, err)
		return
	}
	req.Certifications = certs
	c.applyListEdits(ctx, &req)

	picture, err := readPicture(ctx)
	if err != nil {
		c.renderEdit(ctx, &req, err)
		return
	}
	if picture != nil {
		if closer, ok := picture.Data.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	user, err := c.userService.UpdateProfile(requestContext(ctx), viewer(ctx), &req, picture)
	if err != nil {
		c.renderEdit(ctx, &req, err)
		return
	}

	session := middleware.CurrentSession(ctx)
	if err := session.Refresh(ctx.Request.Context()); err != nil {
		c.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to refresh session after profile update")
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Profile updated", "/profile/"+user.ID)
}

// SearchSkills serves the skill autocomplete
func (c *UserController) SearchSkills(ctx *gin.Context) {
	session := middleware.CurrentSession(ctx)
	skills, err := session.Skills().Search(requestContext(ctx), ctx.Query("q"), ctx.QueryArray("selected"))
	if err != nil {
		if errors.Is(err, scheduler.ErrSuperseded) {
			ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"superseded": true}))
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SkillSearchResponse{Skills: skills}))
}

// FetchCertification verifies a credential with its platform
func (c *UserController) FetchCertification(ctx *gin.Context) {
	cert, err := c.certificationService.Fetch(requestContext(ctx), ctx.Query("platform"), ctx.Query("credentialId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(cert))
}

func parseCertifications(raw []string) ([]models.Certification, error) {
	var certs []models.Certification
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		var cert models.Certification
		if err := json.Unmarshal([]byte(r), &cert); err != nil {
			return nil, validationError("certifications", "Invalid certification data")
		}
		certs = services.AppendCertification(certs, cert)
	}
	return certs, nil
}

// applyListEdits folds the scriptless editor fields into req: add_skill
// toggles one skill and each remove_cert index drops a certification.
func (c *UserController) applyListEdits(ctx *gin.Context, req *dto.UpdateProfileRequest) {
	if name := strings.TrimSpace(ctx.PostForm("add_skill")); name != "" {
		req.Skills = services.ToggleSkill(req.Skills, name, c.maxSkills)
	}

	var drop []int
	for _, raw := range ctx.PostFormArray("remove_cert") {
		if idx, err := strconv.Atoi(raw); err == nil {
			drop = append(drop, idx)
		}
	}
	// highest first so earlier indices stay valid
	sort.Sort(sort.Reverse(sort.IntSlice(drop)))
	for i, idx := range drop {
		if i > 0 && idx == drop[i-1] {
			continue
		}
		req.Certifications = services.RemoveCertification(req.Certifications, idx)
	}
}

// readPicture returns the uploaded picture with its crop area, nil when no
// file was chosen.
func readPicture(ctx *gin.Context) (*services.ProfilePicture, error) {
	fh, err := ctx.FormFile("picture")
	if err != nil || fh.Size == 0 {
		return nil, nil
	}

	var area dto.CropArea
	if err := ctx.ShouldBind(&area); err != nil {
		return nil, validationError("picture", "Invalid crop area")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &services.ProfilePicture{
		Data:        f,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Area: imaging.Area{
			X:      area.X,
			Y:      area.Y,
			Width:  area.Width,
			Height: area.Height,
		},
	}, nil
}
