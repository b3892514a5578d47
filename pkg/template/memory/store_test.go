package memory

import (
	"testing"

	"github.com/matzehuels/photostrip/pkg/template"
	"github.com/matzehuels/photostrip/pkg/template/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) template.Store { return NewStore() })
}
