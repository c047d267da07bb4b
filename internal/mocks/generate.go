package mocks

//go:generate mockery --name SummaryStore --srcpkg github.com/skshmgpt/folio/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Backend --srcpkg github.com/skshmgpt/folio/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
