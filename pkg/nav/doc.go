// Package nav derives the visible navigation menu from the permission
// store.
//
// Menus are ordered lists of Items, built either from the built-in default
// Millii menu or from a YAML manifest:
//
//	- name: Dashboard
//	  route: /dashboard
//	  always_show: true
//	- name: Reports
//	  route: /reports
//	  permission: can_view_reports_tab
//	- name: Chat
//	  route: /chat
//	  permission: [can_chat_with_millii, can_have_direct_chat]
//
// A list-valued permission field means "any of"; navigation has no all-of
// mode. Filter hides every permission-gated item while the store is still
// loading, so restricted entries never flash during startup.
package nav
