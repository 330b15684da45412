package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farmacia-api/pkg/sanitize"
)

func TestText_EliminaEtiquetas(t *testing.T) {
	assert.Equal(t, "Ann", sanitize.Text("<script>alert(1)</script>Ann"))
	assert.Equal(t, "Nguyễn Văn A", sanitize.Text("  <b>Nguyễn Văn A</b> "))
}

func TestEmail_Minusculas(t *testing.T) {
	assert.Equal(t, "ann@x.com", sanitize.Email(" Ann@X.com "))
}
