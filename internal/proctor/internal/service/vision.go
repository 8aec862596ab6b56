// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository"
	"github.com/ani123rud/ACE/internal/proctor/internal/vision"
	"github.com/pkg/errors"
)

// 比对分达到这个值才算同一个人
const matchThreshold = 0.85

var (
	ErrNoFaceDetected   = errors.New("照片里检测不到人脸")
	ErrReferenceMissing = errors.New("会话还没有登记人脸基准")
)

// VisionService 管人脸基准的登记和活体比对。
// 比对跑两次取较低的分，单帧的运气分不会放人过关。
type VisionService interface {
	RegisterReference(ctx context.Context, sessionID int64, imageB64 string) (domain.FaceRef, error)
	SaveReference(ctx context.Context, ref domain.FaceRef) error
	Verify(ctx context.Context, sessionID int64, imageB64 string) (domain.Verification, error)
}

type visionService struct {
	client vision.Client
	repo   repository.FaceRefRepository
}

func NewVisionService(client vision.Client, repo repository.FaceRefRepository) VisionService {
	return &visionService{client: client, repo: repo}
}

func (s *visionService) RegisterReference(ctx context.Context, sessionID int64, imageB64 string) (domain.FaceRef, error) {
	res, err := s.client.Reference(ctx, imageB64)
	if err != nil {
		return domain.FaceRef{}, err
	}
	if !res.HasFace || len(res.Embedding) == 0 || allZero(res.Embedding) {
		return domain.FaceRef{}, ErrNoFaceDetected
	}
	ref := domain.FaceRef{
		SessionID: sessionID,
		Embedding: res.Embedding,
		Method:    res.Method,
		Model:     res.Model,
	}
	if err := s.repo.Save(ctx, ref); err != nil {
		return domain.FaceRef{}, err
	}
	return ref, nil
}

// SaveReference 直接保存客户端算好的向量，跳过边车
func (s *visionService) SaveReference(ctx context.Context, ref domain.FaceRef) error {
	if len(ref.Embedding) == 0 {
		return ErrNoFaceDetected
	}
	return s.repo.Save(ctx, ref)
}

func (s *visionService) Verify(ctx context.Context, sessionID int64, imageB64 string) (domain.Verification, error) {
	ref, err := s.repo.FindBySession(ctx, sessionID)
	if errors.Is(err, repository.ErrFaceRefNotFound) {
		return domain.Verification{}, ErrReferenceMissing
	}
	if err != nil {
		return domain.Verification{}, err
	}

	res, err := s.client.Verify(ctx, imageB64, ref.Embedding)
	if err != nil {
		return domain.Verification{}, err
	}
	// 第二次失败就用第一次的结果，别因为边车抖动把人拦在外面
	if second, err := s.client.Verify(ctx, imageB64, ref.Embedding); err == nil {
		if second.MatchScore < res.MatchScore {
			res.MatchScore = second.MatchScore
		}
		if second.FacesCount < res.FacesCount {
			res.FacesCount = second.FacesCount
		}
		if second.MultipleFaces {
			res.MultipleFaces = true
		}
		if second.LookingAway {
			res.LookingAway = true
		}
	}
	return domain.Verification{
		OK:            res.FacesCount >= 1 && !res.MultipleFaces && res.MatchScore >= matchThreshold,
		MatchScore:    res.MatchScore,
		MultipleFaces: res.MultipleFaces,
		LookingAway:   res.LookingAway,
		FacesCount:    res.FacesCount,
		HeadPose:      res.HeadPose,
	}, nil
}

// allZero 边车偶尔在没脸的图上吐全零向量，也当没检测到
func allZero(embedding []float64) bool {
	for _, v := range embedding {
		if v != 0 {
			return false
		}
	}
	return true
}
