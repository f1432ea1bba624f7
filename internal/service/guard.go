package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/errno"
)

// AssertOwner 修改类操作的鉴权：只有归属者能改，否则Forbidden
func AssertOwner(principal uint64, entity model.Owned) error {
	if principal == 0 || entity.GetOwnerID() != principal {
		return errno.Forbidden
	}
	return nil
}

// AssertVisible 读权限：未公开的视频只有归属者能看到，对其他人报NotFound而不是Forbidden，不暴露它的存在
func AssertVisible(principal uint64, video *model.Video) error {
	if video.IsPublished {
		return nil
	}
	if principal != 0 && video.OwnerID == principal {
		return nil
	}
	return errno.NotFound.WithMessage("视频不存在")
}
