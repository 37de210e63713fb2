package acesso

import "strings"

// Regras mapeia e-mails para níveis de acesso. As listas vêm da
// configuração: nenhum domínio ou endereço é fixado em código.
type Regras struct {
	adminEmails   map[string]struct{}
	adminDominios []string
}

// NovasRegras normaliza as listas de e-mails e domínios administrativos.
func NovasRegras(emails, dominios []string) Regras {
	r := Regras{adminEmails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			r.adminEmails[e] = struct{}{}
		}
	}
	for _, d := range dominios {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			r.adminDominios = append(r.adminDominios, d)
		}
	}
	return r
}

// DeterminarNivel resolve o nível de uma identidade a partir do e-mail.
// E-mails na lista administrativa recebem administrador; os demais caem
// no padrão informado, nunca abaixo de supervisor. O nível agente só é
// atribuído fora deste fluxo, pelo painel administrativo ou pela CLI.
func (r Regras) DeterminarNivel(email string, padrao Nivel) Nivel {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, ok := r.adminEmails[email]; ok {
		return NivelAdministrador
	}
	if at := strings.LastIndex(email, "@"); at >= 0 {
		dominio := email[at+1:]
		for _, d := range r.adminDominios {
			if dominio == d {
				return NivelAdministrador
			}
		}
	}

	if padrao < NivelSupervisor {
		return NivelSupervisor
	}
	return padrao
}
