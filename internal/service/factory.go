package service

import (
	"fmt"

	"github.com/fsdevblog/receipts/internal/service/psswd"
	"github.com/fsdevblog/receipts/internal/service/receipt"
	"github.com/fsdevblog/receipts/pkg/uow"
)

type AppServices struct {
	UserService  *UserService
	CheckService *CheckService
}

type FactoryArgs struct {
	JWTSecret        []byte
	ReceiptLineWidth int
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret, psswd.PasswordHash(""))
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	checkService, checkServiceErr := NewCheckService(unitOfWork, receipt.NewBuilder(args.ReceiptLineWidth))
	if checkServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", checkServiceErr.Error())
	}

	return &AppServices{
		UserService:  userService,
		CheckService: checkService,
	}, nil
}
