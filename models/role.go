package models

// Role ของผู้ใช้ระบบ — ชุดค่าปิดตาย รับเฉพาะค่าที่ประกาศไว้เท่านั้น
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleHeadTeacher Role = "head_teacher"
	RoleTeacher     Role = "teacher"
	RoleAccountant  Role = "accountant"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

// ParseRole แปลง string เป็น Role — คืน false ถ้าไม่อยู่ในชุดที่รู้จัก
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHeadTeacher, RoleTeacher, RoleAccountant, RoleStudent, RoleParent:
		return Role(s), true
	}
	return "", false
}

// ชุดสิทธิ์ตั้งชื่อไว้ใช้กับ RequireAnyRole
// ไม่ต้องใส่ admin ในชุด — middleware ให้ admin ผ่านทุกด่านอยู่แล้ว
var (
	TeacherOrAbove     = []Role{RoleHeadTeacher, RoleTeacher}
	AdminOrHeadTeacher = []Role{RoleHeadTeacher}
	AdminOrAccountant  = []Role{RoleAccountant}
	AdminOnly          = []Role{}
)
