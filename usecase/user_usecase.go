package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"panorama-api/domain/dto"
	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"
	"panorama-api/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}
	hashed := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if hashed != user.Password {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}

	now := utils.GetCurrentTime()
	token, err := utils.GenerateToken(map[string]interface{}{
		"user_name": user.UserName,
		"iss":       fmt.Sprintf("%d", user.ID),
		"iat":       now.Unix(),
		"exp":       now.Add(24 * time.Hour).Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("token generation failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{"token": token}
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res
	if _, err := u.userRepo.GetByUserName(ctx, req.UserName); err == nil {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already taken"
		return res
	}
	err := u.userRepo.CreateUser(ctx, model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}
	res.ResponseCode = "201"
	res.ResponseMessage = "Created"
	return res
}
