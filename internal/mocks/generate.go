// Package mocks provides gomock implementations of the internal/core interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Get(gomock.Any(), 1).Return(detail, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/target/jobly/internal/core JobRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=company_repository_mock.go github.com/target/jobly/internal/core CompanyRepository
