/**
 * Copyright 2024-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"coinsouq-exchange-go/internal/admin"
	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/deposits"
	"coinsouq-exchange-go/internal/ledger"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	depositsFlag := flag.Bool("deposits", false, "List pending deposit requests")
	approveFlag := flag.String("approve", "", "Approve a pending deposit request by id")
	rejectFlag := flag.String("reject", "", "Reject a pending deposit request by id")
	kycFlag := flag.Bool("kyc", false, "List users with pending KYC")
	approveKycFlag := flag.String("approve-kyc", "", "Approve KYC for a user by id")
	rejectKycFlag := flag.String("reject-kyc", "", "Reject KYC for a user by id")
	activityFlag := flag.Bool("activity", false, "Show the activity log")
	activityUserFlag := flag.String("user", "", "Filter activity by user id (optional)")
	activityLimitFlag := flag.Int("limit", 20, "Max activity entries to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	st, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	adminService := admin.NewService(st)
	workflow := deposits.NewWorkflow(st, ledger.NewService(st))

	switch {
	case *approveFlag != "":
		request, err := workflow.Approve(ctx, *approveFlag)
		if err != nil {
			if errors.Is(err, deposits.ErrAlreadyProcessed) {
				zap.L().Fatal("Deposit request already processed", zap.String("deposit_id", *approveFlag))
			}
			if errors.Is(err, store.ErrDepositNotFound) {
				zap.L().Fatal("Deposit request not found", zap.String("deposit_id", *approveFlag))
			}
			zap.L().Fatal("Failed to approve deposit request", zap.Error(err))
		}
		fmt.Printf("Approved deposit %s: credited %s USDT to %s\n",
			request.Id, request.Amount.StringFixed(2), request.UserName)

	case *rejectFlag != "":
		request, err := workflow.Reject(ctx, *rejectFlag)
		if err != nil {
			if errors.Is(err, deposits.ErrAlreadyProcessed) {
				zap.L().Fatal("Deposit request already processed", zap.String("deposit_id", *rejectFlag))
			}
			if errors.Is(err, store.ErrDepositNotFound) {
				zap.L().Fatal("Deposit request not found", zap.String("deposit_id", *rejectFlag))
			}
			zap.L().Fatal("Failed to reject deposit request", zap.Error(err))
		}
		fmt.Printf("Rejected deposit %s (%s USDT from %s)\n",
			request.Id, request.Amount.StringFixed(2), request.UserName)

	case *depositsFlag:
		pending, err := workflow.Pending(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list deposit requests", zap.Error(err))
		}
		common.PrintHeader("PENDING DEPOSIT REQUESTS", common.DefaultWidth)
		if len(pending) == 0 {
			fmt.Println("None")
		}
		for i, request := range pending {
			isLast := i == len(pending)-1
			fmt.Printf("%s%s\n", common.BoxPrefix(isLast), request.Id)
			fmt.Printf("%sUser: %s (%s)\n", common.BoxDetailPrefix(isLast), request.UserName, request.UserId)
			fmt.Printf("%sAmount: %s USDT via %s\n", common.BoxDetailPrefix(isLast), request.Amount.StringFixed(2), request.Method)
			fmt.Printf("%sSubmitted: %s\n", common.BoxDetailPrefix(isLast), request.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		common.PrintSeparator("=", common.DefaultWidth)

	case *approveKycFlag != "":
		user, err := adminService.ApproveKYC(ctx, *approveKycFlag)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				zap.L().Fatal("User not found", zap.String("user_id", *approveKycFlag))
			}
			zap.L().Fatal("Failed to approve KYC", zap.Error(err))
		}
		fmt.Printf("KYC approved for %s <%s>: level %d, status %s\n",
			user.Name, user.Email, user.KYCLevel, user.KYCStatus)

	case *rejectKycFlag != "":
		user, err := adminService.RejectKYC(ctx, *rejectKycFlag)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				zap.L().Fatal("User not found", zap.String("user_id", *rejectKycFlag))
			}
			zap.L().Fatal("Failed to reject KYC", zap.Error(err))
		}
		fmt.Printf("KYC rejected for %s <%s>\n", user.Name, user.Email)

	case *kycFlag:
		pending, err := adminService.PendingKYC(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list pending KYC", zap.Error(err))
		}
		common.PrintHeader("PENDING KYC REVIEW", common.DefaultWidth)
		if len(pending) == 0 {
			fmt.Println("None")
		}
		for i, user := range pending {
			isLast := i == len(pending)-1
			fmt.Printf("%s%s\n", common.BoxPrefix(isLast), user.Id)
			fmt.Printf("%sName: %s <%s>\n", common.BoxDetailPrefix(isLast), user.Name, user.Email)
			fmt.Printf("%sCurrent level: %d\n", common.BoxDetailPrefix(isLast), user.KYCLevel)
		}
		common.PrintSeparator("=", common.DefaultWidth)

	case *activityFlag:
		logs, err := st.GetActivityLogs(ctx, *activityUserFlag)
		if err != nil {
			zap.L().Fatal("Failed to load activity log", zap.Error(err))
		}
		common.PrintHeader("ACTIVITY LOG", common.DefaultWidth)
		if len(logs) == 0 {
			fmt.Println("No activity recorded")
		}
		shown := logs
		if *activityLimitFlag > 0 && len(shown) > *activityLimitFlag {
			shown = shown[:*activityLimitFlag]
		}
		for i, entry := range shown {
			isLast := i == len(shown)-1
			fmt.Printf("%s%s  %s\n", common.BoxPrefix(isLast), entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action)
			fmt.Printf("%sUser: %s, IP: %s, Device: %s\n", common.BoxDetailPrefix(isLast), entry.UserId, entry.IP, entry.Device)
		}
		common.PrintSeparator("=", common.DefaultWidth)

	default:
		zap.L().Fatal("No action given: use --deposits, --approve, --reject, --kyc, --approve-kyc, --reject-kyc or --activity")
	}
}
