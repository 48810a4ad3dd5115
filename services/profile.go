package services

import (
	"context"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/session"
)

type ProfileService interface {
	Find(ctx context.Context) (*apiclient.Profile, error)
	Update(ctx context.Context, update apiclient.ProfileUpdate) (*apiclient.Profile, error)
	// UploadCV validates and uploads a candidate's CV. Invalid files never reach the API.
	UploadCV(ctx context.Context, filename string, data []byte) (*apiclient.Profile, error)
	UploadPicture(ctx context.Context, filename string, data []byte) (*apiclient.Profile, error)
	Limits() UploadLimits
}

type UploadLimits struct {
	MaxCVSize      int64
	MaxPictureSize int64
	PictureSize    int
}

type profileService struct {
	api    API
	limits UploadLimits
}

func NewProfileService(api API, limits UploadLimits) ProfileService {
	return &profileService{
		api:    api,
		limits: limits,
	}
}

func (p *profileService) Limits() UploadLimits {
	return p.limits
}

func (p *profileService) Find(ctx context.Context) (*apiclient.Profile, error) {
	m := session.FromContext(ctx)
	if m == nil {
		return nil, session.ErrNoManager
	}
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	profile, err := p.api.Profile(ctx, m.AccessToken())
	if err != nil {
		return nil, apiErr(ctx, "find profile", err)
	}
	return profile, nil
}

func (p *profileService) Update(ctx context.Context, update apiclient.ProfileUpdate) (*apiclient.Profile, error) {
	m := session.FromContext(ctx)
	if m == nil {
		return nil, session.ErrNoManager
	}
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	profile, err := p.api.UpdateProfile(ctx, m.AccessToken(), update)
	if err != nil {
		return nil, apiErr(ctx, "update profile", err)
	}
	return profile, nil
}

func (p *profileService) UploadCV(ctx context.Context, filename string, data []byte) (*apiclient.Profile, error) {
	upload, err := CheckCV(filename, data, p.limits.MaxCVSize)
	if err != nil {
		return nil, err
	}
	token, err := accessToken(ctx, session.RoleCandidate)
	if err != nil {
		return nil, err
	}
	profile, err := p.api.UploadCV(ctx, token, upload)
	if err != nil {
		return nil, apiErr(ctx, "upload cv", err)
	}
	return profile, nil
}

func (p *profileService) UploadPicture(ctx context.Context, filename string, data []byte) (*apiclient.Profile, error) {
	upload, err := PreparePicture(filename, data, p.limits.MaxPictureSize, p.limits.PictureSize)
	if err != nil {
		return nil, err
	}
	m := session.FromContext(ctx)
	if m == nil {
		return nil, session.ErrNoManager
	}
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	profile, err := p.api.UploadPictures(ctx, m.AccessToken(), upload)
	if err != nil {
		return nil, apiErr(ctx, "upload picture", err)
	}
	return profile, nil
}
