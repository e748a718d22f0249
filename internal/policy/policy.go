// Package policy содержит правила доступа: управление каталогом
// и доступ к фильмам по тарифу подписки.
package policy

import "github.com/movieexplorer/movie-explorer/internal/models"

// CanManageMovies возвращает true, если роль позволяет изменять каталог фильмов.
func CanManageMovies(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSupervisor
}

// BypassesTierGate возвращает true, если роль дает доступ к фильмам
// любого тарифа без проверки подписки.
func BypassesTierGate(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSupervisor
}

// CanAccessPlan проверяет, что тариф подписки не ниже тарифа фильма.
func CanAccessPlan(userPlan, moviePlan models.Plan) bool {
	return userPlan >= moviePlan
}
