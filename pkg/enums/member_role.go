package enums

// MemberRole distinguishes storefront customers from dashboard admins.
type MemberRole string

const (
	MemberRoleCustomer MemberRole = "customer"
	MemberRoleAdmin    MemberRole = "admin"
)

func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleCustomer, MemberRoleAdmin:
		return true
	}
	return false
}
