package validation

import "testing"

func TestValidSlug(t *testing.T) {
	valid := []string{
		"go-basico",
		"react-2",
		"a",
		"a1",
		"curso-de-64-caracteres-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"Go-Basico",
		"-leading",
		"trailing-",
		"con espacio",
		"con/slash",
		"doble--guion-ok-pero-no;punto-y-coma",
		"este-slug-es-demasiado-largo-para-entrar-en-el-limite-de-sesenta-y-cuatro",
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}
