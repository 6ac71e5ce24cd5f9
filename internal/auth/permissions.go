package auth

// Permission codenames follow the <verb>_<entity> convention. The gate treats
// them as opaque strings with no hierarchy or wildcard semantics; unknown
// codenames are accepted on roles but never satisfy any check.
const (
	PermAddBill      = "add_bill"
	PermViewBill     = "view_bill"
	PermChangeBill   = "change_bill"
	PermDeleteBill   = "delete_bill"
	PermAddBillFile  = "add_bill_file"
	PermViewBillFile = "view_bill_file"

	PermAddVote    = "add_vote"
	PermViewVote   = "view_vote"
	PermDeleteVote = "delete_vote"

	PermAddRepresentative      = "add_representative"
	PermViewRepresentative     = "view_representative"
	PermChangeRepresentative   = "change_representative"
	PermDeleteRepresentative   = "delete_representative"
	PermAddRepresentativeFile  = "add_representative_file"
	PermViewRepresentativeFile = "view_representative_file"

	PermAddUser    = "add_user"
	PermViewUser   = "view_user"
	PermChangeUser = "change_user"
	PermDeleteUser = "delete_user"

	PermAddGroup    = "add_group"
	PermViewGroup   = "view_group"
	PermChangeGroup = "change_group"
	PermDeleteGroup = "delete_group"

	PermAddPermission    = "add_permission"
	PermViewPermission   = "view_permission"
	PermDeletePermission = "delete_permission"

	PermAddConfig    = "add_config"
	PermViewConfig   = "view_config"
	PermChangeConfig = "change_config"
	PermDeleteConfig = "delete_config"

	PermAddFAQ    = "add_faq"
	PermViewFAQ   = "view_faq"
	PermChangeFAQ = "change_faq"
	PermDeleteFAQ = "delete_faq"
)

// BuiltinPermissions is the seed vocabulary ensured at startup.
var BuiltinPermissions = []Permission{
	{Codename: PermAddBill, Description: "Create bills"},
	{Codename: PermViewBill, Description: "View and filter bills"},
	{Codename: PermChangeBill, Description: "Update bills"},
	{Codename: PermDeleteBill, Description: "Delete bills"},
	{Codename: PermAddBillFile, Description: "Upload bill documents"},
	{Codename: PermViewBillFile, Description: "Fetch and stream bill documents"},
	{Codename: PermAddVote, Description: "Record votes"},
	{Codename: PermViewVote, Description: "View and filter votes"},
	{Codename: PermDeleteVote, Description: "Delete votes"},
	{Codename: PermAddRepresentative, Description: "Create representatives"},
	{Codename: PermViewRepresentative, Description: "View and filter representatives"},
	{Codename: PermChangeRepresentative, Description: "Update representatives"},
	{Codename: PermDeleteRepresentative, Description: "Delete representatives"},
	{Codename: PermAddRepresentativeFile, Description: "Upload representative files"},
	{Codename: PermViewRepresentativeFile, Description: "Fetch representative files"},
	{Codename: PermAddUser, Description: "Create users and apps"},
	{Codename: PermViewUser, Description: "View and filter users"},
	{Codename: PermChangeUser, Description: "Update users and reset credentials"},
	{Codename: PermDeleteUser, Description: "Delete users"},
	{Codename: PermAddGroup, Description: "Create roles"},
	{Codename: PermViewGroup, Description: "View and filter roles"},
	{Codename: PermChangeGroup, Description: "Update role permissions"},
	{Codename: PermDeleteGroup, Description: "Delete roles"},
	{Codename: PermAddPermission, Description: "Create permissions"},
	{Codename: PermViewPermission, Description: "View and filter permissions"},
	{Codename: PermDeletePermission, Description: "Delete permissions"},
	{Codename: PermAddConfig, Description: "Create configs"},
	{Codename: PermViewConfig, Description: "View configs"},
	{Codename: PermChangeConfig, Description: "Update configs"},
	{Codename: PermDeleteConfig, Description: "Delete configs"},
	{Codename: PermAddFAQ, Description: "Create FAQs"},
	{Codename: PermViewFAQ, Description: "View FAQs"},
	{Codename: PermChangeFAQ, Description: "Update FAQs"},
	{Codename: PermDeleteFAQ, Description: "Delete FAQs"},
}
