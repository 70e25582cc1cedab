package memory_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rz1986/gameportal/internal/storage"
	"github.com/rz1986/gameportal/internal/storage/memory"
	"github.com/rz1986/gameportal/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.Factory = func() storage.Storage {
		return memory.New()
	}
	suite.Run(t, s)
}
